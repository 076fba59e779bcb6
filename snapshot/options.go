// SPDX-License-Identifier: MIT

package snapshot

import "github.com/google/uuid"

// Option configures FromRecord.
type Option func(*options)

type options struct {
	id string
}

// WithID sets the provenance identifier written into the document.
// An empty id restores the default, a fresh random UUID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

func gatherOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	return o
}
