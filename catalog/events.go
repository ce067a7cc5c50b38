package catalog

// Event is a session notification emitted by the client
type Event int

const (
	// EventUnauthorized is emitted after the server answered 401 and the session was cleared
	EventUnauthorized Event = iota + 1
	// EventLogout is emitted after an explicit logout
	EventLogout
)

// String returns the name of the event
func (e Event) String() string {
	switch e {
	case EventUnauthorized:
		return "unauthorized"
	case EventLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// Handler receives session events
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Subscribe registers handler for session events. Handlers run synchronously on the
// goroutine that triggered the event, in registration order. The returned function
// removes the handler and is safe to call more than once.
func (c *Client) Subscribe(handler Handler) func() {
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscription{id: id, handler: handler})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subscribers {
			if sub.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// notify delivers event to a snapshot of the current subscribers
func (c *Client) notify(event Event) {
	c.mu.Lock()
	subs := make([]subscription, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	c.logger.Debug().Stringer("event", event).Int("subscribers", len(subs)).Msg("Dispatching session event")

	for _, sub := range subs {
		sub.handler(event)
	}
}
