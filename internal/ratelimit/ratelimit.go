// Package ratelimit implements sliding-window admission control. A key is
// admitted when fewer than Limit admissions were recorded for it within the
// trailing Window; every admission is recorded, rejections are not.
package ratelimit

import "time"

// Clock returns the current time. Tests substitute a controllable clock.
type Clock func() time.Time

type Option func(*options)

type options struct {
	clock  Clock
	prefix string
}

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPrefix namespaces every key, e.g. "bookshare:ratelimit:".
func WithPrefix(p string) Option {
	return func(o *options) { o.prefix = p }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
