package ui

import "github.com/piwi3910/PrintQuote/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the editable quote state at a point in time.
type Snapshot struct {
	Products  []model.Product
	Overrides model.Overrides
	Settings  model.Settings
	Label     string // Shown in the Edit menu, e.g. "Add Product"
}

// snapshots is a LIFO of snapshots.
type snapshots []Snapshot

func (s *snapshots) push(v Snapshot) { *s = append(*s, v) }

func (s *snapshots) pop() (Snapshot, bool) {
	n := len(*s)
	if n == 0 {
		return Snapshot{}, false
	}
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v, true
}

// History holds the undo and redo stacks of the quote editor. The undo
// stack keeps at most maxDepth entries, dropping the oldest.
type History struct {
	undoStack snapshots
	redoStack snapshots
	maxDepth  int
}

func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push records the state before an edit. Any redo history is lost.
func (h *History) Push(s Snapshot) {
	h.undoStack.push(s)
	if over := len(h.undoStack) - h.maxDepth; over > 0 {
		h.undoStack = h.undoStack[over:]
	}
	h.redoStack = nil
}

// Undo returns the state to restore and keeps current for Redo. ok is
// false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	return step(&h.undoStack, &h.redoStack, current)
}

func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	return step(&h.redoStack, &h.undoStack, current)
}

// step moves one snapshot from src and parks current on dst.
func step(src, dst *snapshots, current Snapshot) (Snapshot, bool) {
	prev, ok := src.pop()
	if ok {
		dst.push(current)
	}
	return prev, ok
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoLabel names the edit Undo would revert, for the Edit menu.
func (h *History) UndoLabel() string {
	if !h.CanUndo() {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// Clear forgets all history, e.g. after opening another quote.
func (h *History) Clear() {
	h.undoStack, h.redoStack = nil, nil
}

// copyProducts copies products along with their paper lists.
func copyProducts(products []model.Product) []model.Product {
	if products == nil {
		return nil
	}
	cp := append([]model.Product(nil), products...)
	for i := range cp {
		if cp[i].Papers != nil {
			cp[i].Papers = append([]model.Paper(nil), cp[i].Papers...)
		}
	}
	return cp
}

// copyOverrides copies the map and the values behind its pointers so a
// later edit of the live overrides cannot reach into the snapshot.
func copyOverrides(ov model.Overrides) model.Overrides {
	if ov == nil {
		return nil
	}
	cp := make(model.Overrides, len(ov))
	for k, o := range ov {
		var c model.Override
		if o.EnteredSheets != nil {
			n := *o.EnteredSheets
			c.EnteredSheets = &n
		}
		if o.PricePerSheet != nil {
			p := *o.PricePerSheet
			c.PricePerSheet = &p
		}
		cp[k] = c
	}
	return cp
}

// MakeSnapshot creates a deep copy of the quote state with a label.
func MakeSnapshot(products []model.Product, ov model.Overrides, settings model.Settings, label string) Snapshot {
	return Snapshot{
		Products:  copyProducts(products),
		Overrides: copyOverrides(ov),
		Settings:  settings,
		Label:     label,
	}
}
