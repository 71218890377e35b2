package buttons

import (
	"context"
	"sync"
)

type Kind string

const (
	Press Kind = "press"
	Back  Kind = "back"
	Exit  Kind = "exit"
)

// Event is one physical input. Key is the zero-based tile index for Press
// and Back.
type Event struct {
	Kind Kind
	Key  int
}

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// ChanButtons delivers events injected with Send. Used by the simulator and
// as the no-input fallback.
type ChanButtons struct {
	ch   chan Event
	once sync.Once
	done chan struct{}
}

func NewChanButtons() *ChanButtons {
	return &ChanButtons{ch: make(chan Event, 16), done: make(chan struct{})}
}

func (c *ChanButtons) Start(ctx context.Context) error { return nil }

func (c *ChanButtons) Stop() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *ChanButtons) Events() <-chan Event { return c.ch }

// Send queues ev, dropping it when the queue is full or the source is stopped.
func (c *ChanButtons) Send(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.ch <- ev:
		return true
	default:
		return false
	}
}
