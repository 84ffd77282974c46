package optkit

import (
	"github.com/ef-ds/deque"
)

// dispatch runs the callbacks of the present options among opts, in order,
// followed by whatever they Defer. Every option's state is final by the time
// the first callback runs.
func (c *Cli) dispatch(opts []*Option) {
	c.queue = deque.New()
	defer func() { c.queue = nil }()

	for _, o := range opts {
		if o.exists && o.onExists != nil {
			c.queue.PushBack(o)
		}
	}

	for c.queue.Len() > 0 {
		ele, _ := c.queue.PopFront()
		switch item := ele.(type) {
		case *Option:
			c.logger.Debug("dispatching callback", "key", item.key)
			item.onExists(item)
		case func():
			c.logger.Debug("running deferred callback")
			item()
		}
	}
}

// Defer queues fn behind every callback already waiting to run. It may only
// be called from a callback; elsewhere it returns ErrNotDispatching.
func (c *Cli) Defer(fn func()) error {
	if c.queue == nil {
		return ErrNotDispatching
	}
	if fn != nil {
		c.queue.PushBack(fn)
	}
	return nil
}
