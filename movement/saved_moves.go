package movement

import (
	"iter"

	"github.com/oomph-ac/aero/utils"
)

// SavedMoves is the buffer of moves the client made that the server has not yet
// acknowledged, ordered by timestamp.
type SavedMoves struct {
	queue *utils.CircularQueue[*SavedMove]
}

// NewSavedMoves creates a buffer holding at most capacity moves.
func NewSavedMoves(capacity int) *SavedMoves {
	return &SavedMoves{queue: utils.NewCircularQueue[*SavedMove](capacity)}
}

// Append adds a move to the end of the buffer. If the buffer was full, the oldest move is
// evicted and returned.
func (b *SavedMoves) Append(m *SavedMove) (evicted *SavedMove) {
	old, dropped, err := b.queue.Append(m)
	if err != nil || !dropped {
		return nil
	}
	return old
}

// AckUpTo removes every move with a timestamp at or before ts, passing each to release.
// It returns the number of moves removed.
func (b *SavedMoves) AckUpTo(ts float64, release func(*SavedMove)) int {
	n := 0
	for {
		m, ok := b.queue.Peek()
		if !ok || m.Timestamp > ts {
			return n
		}
		b.queue.Pop()
		if release != nil {
			release(m)
		}
		n++
	}
}

// After yields, oldest first, every move with a timestamp after ts.
func (b *SavedMoves) After(ts float64) iter.Seq[*SavedMove] {
	return func(yield func(*SavedMove) bool) {
		for m := range b.queue.Iter() {
			if m.Timestamp <= ts {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Last returns the newest move.
func (b *SavedMoves) Last() (*SavedMove, bool) {
	return b.queue.Last()
}

// RemoveLast removes and returns the newest move.
func (b *SavedMoves) RemoveLast() (*SavedMove, bool) {
	return b.queue.PopLast()
}

// Len returns the number of buffered moves.
func (b *SavedMoves) Len() int {
	return b.queue.Len()
}

// Cap returns the capacity of the buffer.
func (b *SavedMoves) Cap() int {
	return b.queue.Cap()
}

// Clear drops every move, passing each to release.
func (b *SavedMoves) Clear(release func(*SavedMove)) {
	if release != nil {
		for m := range b.queue.Iter() {
			release(m)
		}
	}
	b.queue.Clear()
}
