package dialect

import "github.com/posprint/receipt/internal/command"

// starline emits the legacy Star Line Mode language spoken by older Star
// printers (TSP650II and friends). It shares almost every emission with
// StarPRNT; the differences are confined to session control: Line Mode
// printers print as data arrives, so there is no buffered page to cancel at
// initialization and no page-mode flush sequence.
type starline struct {
	starprnt
}

func (starline) Name() string { return StarLine }

func (starline) Initialize() []command.Item {
	return []command.Item{command.RawItem(command.Initialize, []byte{0x1B, 0x40})}
}

func (starline) Flush() []command.Item { return nil }
