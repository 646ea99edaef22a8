package rq

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSetting = errors.New("rq: missing setting")
	ErrInvalidSetting = errors.New("rq: invalid setting")
	ErrInvalidURL     = errors.New("rq: invalid url")
)

// ConfigurationError reports a queue whose settings cannot produce a
// connection. It is never retried.
type ConfigurationError struct {
	Queue string
	Key   string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rq: queue %q: %s: %v", e.Queue, e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
