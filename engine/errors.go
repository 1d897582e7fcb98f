package engine

import "errors"

var (
	// ErrNotRegistered is returned when a producer is requested for a
	// group the metadata service has not assigned an id yet.
	ErrNotRegistered = errors.New("feature group is not registered")

	// ErrTopicUnbound is returned when the resolved online topic has no
	// stream bound to it on the broker.
	ErrTopicUnbound = errors.New("online topic is not bound to a stream")

	// ErrPublishTimeout is returned when the broker does not
	// acknowledge a publish in time.
	ErrPublishTimeout = errors.New("publish timed out")

	// ErrProducerClosed is returned when producing on a closed handle.
	ErrProducerClosed = errors.New("producer is closed")
)
