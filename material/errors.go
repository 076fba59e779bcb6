// SPDX-License-Identifier: MIT

package material

import "errors"

var (
	// ErrStaleHandle indicates a handle whose slot was released, or that
	// never belonged to this Context.
	ErrStaleHandle = errors.New("material: stale or foreign handle")

	// ErrNilRecord indicates a nil *xs.Record passed to AddRecord.
	ErrNilRecord = errors.New("material: nil record")

	// ErrEmptyName indicates an empty material or property name.
	ErrEmptyName = errors.New("material: empty name")

	// ErrPropertyNotFound indicates a property name the material does not carry.
	ErrPropertyNotFound = errors.New("material: property not found")

	// ErrKindMismatch indicates an operation applied to a property of the wrong kind.
	ErrKindMismatch = errors.New("material: property kind mismatch")

	// ErrInvalidProperty indicates a zero Property or non-finite/negative values.
	ErrInvalidProperty = errors.New("material: invalid property")

	// ErrGroupMismatch indicates a source whose group count differs from the
	// cross sections of the same material.
	ErrGroupMismatch = errors.New("material: group count mismatch")

	// ErrUnhandledKind is returned by Match when no case handles the kind.
	ErrUnhandledKind = errors.New("material: unhandled property kind")
)
