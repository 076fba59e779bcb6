// SPDX-License-Identifier: MIT

package material

import "log/slog"

// Option configures a Context.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes context warnings (dangling references) to l.
// A nil logger restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func gatherOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
