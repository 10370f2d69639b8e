// Command receipt-print encodes a document and prints it.
//
// Text comes from arguments or stdin; the encoded stream goes to stdout, a
// file, or straight to a printer over TCP, serial or USB. Defaults for the
// printer model and destination can come from the environment
// (RECEIPT_PRINTER, RECEIPT_DEST).
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/posprint/receipt"
	"github.com/posprint/receipt/internal/transport"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		model        string
		dest         string
		outPath      string
		columns      int
		codepageName string
		align        string
		imagePath    string
		ditherImage  bool
		barcodeSpec  string
		qrcodeValue  string
		cutMode      string
		chunkSize    int
		listPrinters bool
		showVersion  bool
	)

	viper.SetEnvPrefix("receipt")
	viper.AutomaticEnv()
	viper.SetDefault("printer", "")
	viper.SetDefault("dest", "")

	pflag.StringVarP(&model, "printer", "p", viper.GetString("printer"), "Printer model id (see --list-printers)")
	pflag.StringVarP(&dest, "dest", "d", viper.GetString("dest"), "Destination: tcp://host[:port], serial://dev[?baud=n], usb:[vvvv:pppp]")
	pflag.StringVarP(&outPath, "out", "o", "", "Write the encoded stream to a file instead of sending")
	pflag.IntVar(&columns, "columns", 0, "Override the column count")
	pflag.StringVar(&codepageName, "codepage", "", "Codepage name, or 'auto'")
	pflag.StringVar(&align, "align", "", "Alignment: left, center, right")
	pflag.StringVar(&imagePath, "image", "", "PNG or JPEG file to print")
	pflag.BoolVar(&ditherImage, "dither", false, "Floyd-Steinberg dither the image")
	pflag.StringVar(&barcodeSpec, "barcode", "", "Barcode as symbology:value (e.g. ean13:871125300120)")
	pflag.StringVar(&qrcodeValue, "qrcode", "", "QR code value")
	pflag.StringVar(&cutMode, "cut", "full", "Cut mode: full, partial, none")
	pflag.IntVar(&chunkSize, "chunk-size", receipt.DefaultChunkSize, "Streaming chunk size in bytes")
	pflag.BoolVar(&listPrinters, "list-printers", false, "List known printer models")
	pflag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if showVersion {
		fmt.Printf("receipt-print %s (%s)\n", version, commit)
		return 0
	}
	if listPrinters {
		for _, p := range receipt.Printers() {
			fmt.Printf("%-22s %s\n", p.ID, p.DisplayName)
		}
		return 0
	}

	var opts []receipt.Option
	if columns > 0 {
		opts = append(opts, receipt.WithColumns(columns))
	}
	if codepageName != "" {
		opts = append(opts, receipt.WithCodepage(codepageName))
	}
	opts = append(opts, receipt.WithLogger(log))

	enc, err := receipt.NewEncoder(model, opts...)
	if err != nil {
		log.Error("cannot create encoder", "model", model, "err", err)
		return 1
	}

	enc.Initialize()
	if align != "" {
		a, err := parseAlign(align)
		if err != nil {
			log.Error("bad flag", "err", err)
			return 1
		}
		enc.Align(a)
	}

	for _, line := range documentLines(pflag.Args()) {
		enc.Line(line)
	}

	if imagePath != "" {
		img, err := loadImage(imagePath, enc.Columns(), ditherImage)
		if err != nil {
			log.Error("cannot load image", "path", imagePath, "err", err)
			return 1
		}
		enc.Image(img)
	}
	if barcodeSpec != "" {
		symbology, value, err := splitBarcodeSpec(barcodeSpec)
		if err != nil {
			log.Error("bad flag", "err", err)
			return 1
		}
		enc.Barcode(value, symbology)
	}
	if qrcodeValue != "" {
		enc.QRCode(qrcodeValue)
	}

	switch cutMode {
	case "full":
		enc.Cut()
	case "partial":
		enc.Cut(receipt.CutPartial)
	case "none":
	default:
		log.Error("bad flag", "err", fmt.Errorf("unknown cut mode %q", cutMode))
		return 1
	}

	if dest != "" {
		if err := send(enc, dest, chunkSize, log); err != nil {
			log.Error("send failed", "dest", dest, "err", err)
			return 1
		}
		return 0
	}

	data, err := enc.Encode()
	if err != nil {
		log.Error("encoding failed", "err", err)
		return 1
	}
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Error("cannot create output file", "path", outPath, "err", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(data); err != nil {
		log.Error("write failed", "err", err)
		return 1
	}
	return 0
}

// documentLines takes text from the arguments, or from stdin when no
// arguments are given and stdin is not a terminal.
func documentLines(args []string) []string {
	if len(args) > 0 {
		return args
	}
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// send streams the encoded document to the printer in chunks, logging
// progress per chunk. The per-chunk callback gives slow links natural
// backpressure: the next chunk is not produced until the write returned.
func send(enc *receipt.Encoder, dest string, chunkSize int, log *slog.Logger) error {
	sender, err := transport.New(dest)
	if err != nil {
		return err
	}
	if err := sender.Open(); err != nil {
		return err
	}
	defer sender.Close()

	seq, err := enc.EncodeStream(receipt.StreamOptions{ChunkSize: chunkSize})
	if err != nil {
		return err
	}
	for chunk := range seq {
		if _, err := sender.Write(chunk.Data); err != nil {
			return fmt.Errorf("chunk %d/%d: %w", chunk.Index+1, chunk.Total, err)
		}
		log.Info("sent chunk",
			"index", chunk.Index+1,
			"total", chunk.Total,
			"bytes", chunk.BytesSent,
			"of", chunk.TotalBytes,
		)
	}
	return nil
}

func parseAlign(s string) (receipt.Align, error) {
	switch s {
	case "left":
		return receipt.AlignLeft, nil
	case "center":
		return receipt.AlignCenter, nil
	case "right":
		return receipt.AlignRight, nil
	}
	return receipt.AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

func splitBarcodeSpec(spec string) (symbology, value string, err error) {
	symbology, value, ok := strings.Cut(spec, ":")
	if !ok || symbology == "" || value == "" {
		return "", "", fmt.Errorf("barcode spec %q, want symbology:value", spec)
	}
	return symbology, value, nil
}
