package mqtt

import "errors"

// Errors returned while delivering change events. The activity recorder logs
// them and carries on: a lost event never fails the write it describes.
var (
	// ErrBrokerOffline means the broker link is down. Events are dropped
	// until paho reconnects.
	ErrBrokerOffline = errors.New("mqtt: broker offline")

	// ErrBrokerUnreachable is returned by Connect when the broker refuses or
	// does not answer within the connect timeout.
	ErrBrokerUnreachable = errors.New("mqtt: broker unreachable")

	// ErrEventDropped wraps an event that was too large or was not
	// acknowledged in time.
	ErrEventDropped = errors.New("mqtt: change event dropped")

	// ErrInvalidQoS rejects a QoS other than 0, 1 or 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS")

	// ErrInvalidTopic rejects an empty topic.
	ErrInvalidTopic = errors.New("mqtt: empty topic")
)
