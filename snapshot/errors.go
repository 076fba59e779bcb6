// SPDX-License-Identifier: MIT

package snapshot

import "errors"

var (
	// ErrVersion marks a document whose version this package cannot read.
	ErrVersion = errors.New("snapshot: unsupported document version")

	// ErrDocument marks a document that decodes but cannot describe a record
	// (unknown fission mode, transfer moment out of range).
	ErrDocument = errors.New("snapshot: invalid document")
)
