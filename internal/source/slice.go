package source

// SliceIterator iterates over entries already held in memory.
type SliceIterator struct {
	entries []Entry
	pos     int
	current Entry
}

// NewSliceIterator returns an iterator over entries.
func NewSliceIterator(entries []Entry) *SliceIterator {
	return &SliceIterator{entries: entries}
}

func (it *SliceIterator) Next() bool {
	if it.pos >= len(it.entries) {
		return false
	}
	it.current = it.entries[it.pos]
	it.pos++
	return true
}

func (it *SliceIterator) Entry() Entry { return it.current }

func (it *SliceIterator) Err() error { return nil }

func (it *SliceIterator) Close() error { return nil }

// Skip returns entries[offset:], or nil when offset is past the end.
func Skip(entries []Entry, offset int) []Entry {
	if offset <= 0 {
		return entries
	}
	if offset >= len(entries) {
		return nil
	}
	return entries[offset:]
}
