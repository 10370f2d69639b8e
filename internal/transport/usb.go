package transport

import (
	"fmt"

	"github.com/google/gousb"
)

// ifaceClassPrinter is the USB interface class for printers.
// Reference: http://www.usb.org/developers/defined_class
const ifaceClassPrinter = 0x07

// USBSender writes to a USB printer-class device through its bulk OUT
// endpoint. With a zero VendorID/ProductID the first printer-class device
// found is used.
type USBSender struct {
	VendorID  uint16
	ProductID uint16

	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
}

func (s *USBSender) Open() error {
	ctx := gousb.NewContext()
	dev, err := s.findDevice(ctx)
	if err != nil {
		ctx.Close()
		return err
	}

	dev.SetAutoDetach(true)
	cfg, intf, out, err := claimPrinterInterface(dev)
	if err != nil {
		dev.Close()
		ctx.Close()
		return err
	}

	s.ctx, s.dev, s.cfg, s.intf, s.out = ctx, dev, cfg, intf, out
	return nil
}

func (s *USBSender) findDevice(ctx *gousb.Context) (*gousb.Device, error) {
	if s.VendorID != 0 || s.ProductID != 0 {
		dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(s.VendorID), gousb.ID(s.ProductID))
		if err != nil {
			return nil, fmt.Errorf("transport: open usb %04x:%04x: %w", s.VendorID, s.ProductID, err)
		}
		if dev == nil {
			return nil, fmt.Errorf("transport: usb device %04x:%04x not found", s.VendorID, s.ProductID)
		}
		return dev, nil
	}

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		for _, cfg := range desc.Configs {
			for _, iface := range cfg.Interfaces {
				for _, alt := range iface.AltSettings {
					if alt.Class == ifaceClassPrinter {
						return true
					}
				}
			}
		}
		return false
	})
	if err != nil && len(devs) == 0 {
		return nil, fmt.Errorf("transport: usb scan: %w", err)
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("transport: no usb printer found")
	}
	// Keep the first match, close the rest.
	for _, d := range devs[1:] {
		d.Close()
	}
	return devs[0], nil
}

// claimPrinterInterface walks the active configuration for a printer-class
// interface with a bulk OUT endpoint and claims it.
func claimPrinterInterface(dev *gousb.Device) (*gousb.Config, *gousb.Interface, *gousb.OutEndpoint, error) {
	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		cfgNum = 1
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("transport: usb config %d: %w", cfgNum, err)
	}

	for _, ifaceDesc := range cfg.Desc.Interfaces {
		for _, alt := range ifaceDesc.AltSettings {
			if alt.Class != ifaceClassPrinter {
				continue
			}
			for _, ep := range alt.Endpoints {
				if ep.Direction != gousb.EndpointDirectionOut || ep.TransferType != gousb.TransferTypeBulk {
					continue
				}
				intf, err := cfg.Interface(ifaceDesc.Number, alt.Alternate)
				if err != nil {
					continue
				}
				out, err := intf.OutEndpoint(ep.Number)
				if err != nil {
					intf.Close()
					continue
				}
				return cfg, intf, out, nil
			}
		}
	}
	cfg.Close()
	return nil, nil, nil, fmt.Errorf("transport: no printer-class bulk OUT endpoint")
}

func (s *USBSender) Write(p []byte) (int, error) {
	if s.out == nil {
		return 0, fmt.Errorf("transport: usb sender not open")
	}
	return s.out.Write(p)
}

func (s *USBSender) Close() error {
	if s.intf != nil {
		s.intf.Close()
		s.intf = nil
	}
	if s.cfg != nil {
		s.cfg.Close()
		s.cfg = nil
	}
	var err error
	if s.dev != nil {
		err = s.dev.Close()
		s.dev = nil
	}
	if s.ctx != nil {
		if cerr := s.ctx.Close(); err == nil {
			err = cerr
		}
		s.ctx = nil
	}
	return err
}
