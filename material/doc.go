// SPDX-License-Identifier: MIT

// Package material owns the objects a simulation builds from cross-section
// data: records and materials, held in an arena by a Context and addressed
// through opaque, generation-checked handles.
//
// 🚀 Why handles?
//
//	A handle is an (index, generation) pair. Releasing a slot bumps its
//	generation, so a handle kept past its object's lifetime fails with
//	ErrStaleHandle instead of silently addressing whatever reuses the slot.
//	Lifetimes are tied to the Context; there are no process-wide registries.
//
// ✨ Properties:
//
//	A material is a named set of properties. Property is a closed tagged
//	variant selected by Kind:
//	  - KindScalar           one number (density, temperature, …)
//	  - KindTransportXS      a RecordHandle to cross-section data
//	  - KindIsotropicSource  per-group isotropic source strengths
//	Read it with AsScalar / AsTransportXS / AsIsotropicSource, or dispatch
//	over every kind with Match.
//
// 🔁 Rebind swaps the record a transport property refers to. The previous
// record stays valid for every other holder; nothing is aliased.
//
// Concurrency: every Context method is safe for concurrent use. Records
// are shared read-only; see package xs for the one permitted patch.
package material
