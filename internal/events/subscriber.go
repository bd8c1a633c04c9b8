package events

type Subscriber interface {
	Subscribe(eventType string, handler Handler) error
}

// Bus is a Publisher and Subscriber that can be shut down.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}
