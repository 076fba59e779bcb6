// SPDX-License-Identifier: MIT

// Package snapshot is the structured, versioned serialization of a
// cross-section record: a plain nested document, decoupled from any
// embedding layer, encoded as YAML.
//
// 🚀 What is it for?
//
//	A snapshot carries every finalized field of a record (fission data
//	already combined into the production operator, diffusion inputs,
//	precursors) so that a record can be exchanged with tools that do not
//	speak the block text format, and restored without re-running the
//	fission finalizer.
//
// ✨ Shape (version 1):
//
//	version: 1
//	id: 2f0c…            # provenance, a UUID unless WithID is given
//	groups: 2
//	scattering_order: 0
//	fission_mode: total
//	sigma_t: [1, 1]
//	sigma_a: [0.7, 0.95]
//	transfer:
//	  - ell: 0
//	    entries:
//	      - g: 1
//	        gprime: 0
//	        value: 0.3
//	production: [[…], […]]
//	precursors: […]
//
// Decode rejects documents of an unknown version with ErrVersion and
// unknown keys with a decode error; Document.Record re-validates the
// content through xs.FromFields.
package snapshot
