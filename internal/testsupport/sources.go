package testsupport

import (
	"context"
	"errors"
	"sync"

	"chartsync/internal/services"
	"chartsync/internal/source"
)

// SliceSource serves fixed entries from position 0 only.
type SliceSource struct {
	Entries []source.Entry

	mu    sync.Mutex
	opens int
}

func (s *SliceSource) Name() string { return "slice" }

func (s *SliceSource) Open(context.Context) (source.Iterator, error) {
	s.mu.Lock()
	s.opens++
	s.mu.Unlock()
	return source.NewSliceIterator(s.Entries), nil
}

// Opens reports how many times the source was opened.
func (s *SliceSource) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// SeekableSource serves fixed entries from any offset and records the offsets
// it was asked for.
type SeekableSource struct {
	Entries []source.Entry

	mu      sync.Mutex
	offsets []int
}

func (s *SeekableSource) Name() string { return "seekable" }

func (s *SeekableSource) Open(ctx context.Context) (source.Iterator, error) {
	return s.OpenAt(ctx, 0)
}

func (s *SeekableSource) OpenAt(_ context.Context, offset int) (source.Iterator, error) {
	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	s.mu.Unlock()
	return source.NewSliceIterator(source.Skip(s.Entries, offset)), nil
}

// Offsets returns the offsets passed to OpenAt, in call order.
func (s *SeekableSource) Offsets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.offsets...)
}

// ErrInjected is the failure FailingSource reports.
var ErrInjected = errors.New("injected source failure")

// FailingSource yields the first FailAfter entries and then fails the stream.
// A negative FailAfter fails Open itself.
type FailingSource struct {
	Entries   []source.Entry
	FailAfter int
}

func (s *FailingSource) Name() string { return "failing" }

func (s *FailingSource) Open(context.Context) (source.Iterator, error) {
	if s.FailAfter < 0 {
		return nil, source.Unavailable(s.Name(), "open", ErrInjected)
	}
	return &failingIterator{entries: s.Entries, failAfter: s.FailAfter}, nil
}

type failingIterator struct {
	entries   []source.Entry
	failAfter int
	pos       int
	current   source.Entry
	err       error
}

func (it *failingIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.pos >= it.failAfter {
		it.err = services.Wrap(services.ErrSourceUnavailable, "failing", "next", "", ErrInjected)
		return false
	}
	if it.pos >= len(it.entries) {
		return false
	}
	it.current = it.entries[it.pos]
	it.pos++
	return true
}

func (it *failingIterator) Entry() source.Entry { return it.current }

func (it *failingIterator) Err() error { return it.err }

func (it *failingIterator) Close() error { return nil }
