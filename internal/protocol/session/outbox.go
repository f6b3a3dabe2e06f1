package session

import (
	"sync"

	"github.com/danmuck/ircwire/internal/protocol"
)

// Outbox is a FIFO of messages waiting to be written.
type Outbox struct {
	mu    sync.Mutex
	items []protocol.Message
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Push(msgs ...protocol.Message) {
	if len(msgs) == 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, msgs...)
}

// Drain removes and returns every queued message in order.
func (o *Outbox) Drain() []protocol.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.items
	o.items = nil
	return out
}

// Requeue puts msgs back at the head of the queue.
func (o *Outbox) Requeue(msgs []protocol.Message) {
	if len(msgs) == 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(append(make([]protocol.Message, 0, len(msgs)+len(o.items)), msgs...), o.items...)
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}
