package hir

// Model is the lowered HIR for one resolved source file: an item arena
// plus, for each item, its own ItemData (expressions/types/patterns). Model
// refs are created during include resolution and persist for the session;
// the Model value itself is created at first lowering and recomputed only
// when its underlying file (or an upstream input) changes.
type Model struct {
	Ref   ModelRef
	Items *Arena[Item]
	// Data holds the per-item storage, indexed by ItemLocal (the arena
	// index of the corresponding Item), data[0] is the unused sentinel.
	Data []*ItemData
}

// NewModel returns an empty Model ready to receive items during lowering.
func NewModel(ref ModelRef) *Model {
	return &Model{
		Ref:   ref,
		Items: NewArena[Item](16),
		Data:  []*ItemData{nil}, // sentinel slot, aligned with Items arena index 0
	}
}

// AddItem appends an item and its freshly allocated ItemData, returning the
// item's local index.
func (m *Model) AddItem(it Item) (ItemLocal, *ItemData) {
	idx := m.Items.Allocate(it)
	data := NewItemData()
	m.Data = append(m.Data, data)
	return ItemLocal(idx), data
}

// Item returns the item at local, or nil if local is invalid.
func (m *Model) Item(local ItemLocal) *Item {
	return m.Items.Get(uint32(local))
}

// ItemData returns the ItemData owned by the item at local, or nil.
func (m *Model) ItemData(local ItemLocal) *ItemData {
	if int(local) <= 0 || int(local) >= len(m.Data) {
		return nil
	}
	return m.Data[local]
}

// Len returns the number of items in the model (sentinel excluded).
func (m *Model) Len() int {
	n := m.Items.Len()
	if n == 0 {
		return 0
	}
	return int(n) - 1
}

// Locals iterates every valid ItemLocal in allocation order.
func (m *Model) Locals() []ItemLocal {
	n := m.Items.Len()
	out := make([]ItemLocal, 0, n)
	for i := uint32(1); i < n; i++ {
		out = append(out, ItemLocal(i))
	}
	return out
}
