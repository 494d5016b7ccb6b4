package netsim

import (
	"errors"
	"fmt"

	"github.com/oomph-ac/aero/movement"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
)

type frame struct {
	deliverAt uint64
	data      []byte
}

// Link is a one-way in-process connection. Messages are encoded on Send and become
// available to Receive once the link has been advanced by its latency.
type Link struct {
	name      string
	latency   uint64
	dropEvery uint64

	mu    deadlock.Mutex
	tick  uint64
	queue []frame

	sent      atomic.Uint64
	dropped   atomic.Uint64
	delivered atomic.Uint64
	corrupt   atomic.Uint64
	bytes     atomic.Uint64
}

// LinkStats holds the counters of a link.
type LinkStats struct {
	Name      string
	Sent      uint64
	Dropped   uint64
	Delivered uint64
	Corrupt   uint64
	Bytes     uint64
}

func (s LinkStats) String() string {
	return fmt.Sprintf("%s: sent=%d dropped=%d delivered=%d corrupt=%d bytes=%d", s.Name, s.Sent, s.Dropped, s.Delivered, s.Corrupt, s.Bytes)
}

// NewLink creates a link. A message sent in one tick is received latency ticks later,
// and never in the tick it was sent in. If dropEvery is above zero, every dropEvery-th
// message sent is lost.
func NewLink(name string, latency, dropEvery int) *Link {
	l := &Link{name: name}
	if latency > 1 {
		l.latency = uint64(latency)
	} else {
		l.latency = 1
	}
	if dropEvery > 0 {
		l.dropEvery = uint64(dropEvery)
	}
	return l
}

// Send encodes the message and queues it.
func (l *Link) Send(msg movement.Message) error {
	data, err := movement.Marshal(msg)
	if err != nil {
		return fmt.Errorf("link %s: %w", l.name, err)
	}

	n := l.sent.Inc()
	if l.dropEvery > 0 && n%l.dropEvery == 0 {
		l.dropped.Inc()
		return nil
	}
	l.bytes.Add(uint64(len(data)))

	l.mu.Lock()
	l.queue = append(l.queue, frame{deliverAt: l.tick + l.latency, data: data})
	l.mu.Unlock()
	return nil
}

// Receive returns the messages due at the current tick of the link, in the order they
// were sent. Frames that fail to decode are skipped and reported in the returned error.
func (l *Link) Receive() ([]movement.Message, error) {
	l.mu.Lock()
	var due []frame
	i := 0
	for ; i < len(l.queue) && l.queue[i].deliverAt <= l.tick; i++ {
		due = append(due, l.queue[i])
	}
	l.queue = l.queue[i:]
	l.mu.Unlock()

	msgs := make([]movement.Message, 0, len(due))
	var errs []error
	for _, f := range due {
		msg, err := movement.Unmarshal(f.data)
		if err != nil {
			l.corrupt.Inc()
			errs = append(errs, fmt.Errorf("link %s: %w", l.name, err))
			continue
		}
		l.delivered.Inc()
		msgs = append(msgs, msg)
	}
	return msgs, errors.Join(errs...)
}

// Advance moves the link one tick forward.
func (l *Link) Advance() {
	l.mu.Lock()
	l.tick++
	l.mu.Unlock()
}

// Pending returns the number of messages in flight.
func (l *Link) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Link) Stats() LinkStats {
	return LinkStats{
		Name:      l.name,
		Sent:      l.sent.Load(),
		Dropped:   l.dropped.Load(),
		Delivered: l.delivered.Load(),
		Corrupt:   l.corrupt.Load(),
		Bytes:     l.bytes.Load(),
	}
}
