// SPDX-License-Identifier: MIT

package angular

import "errors"

var (
	// ErrNoMoments is returned when no moments are given or the zeroth
	// moment (total transfer) is not strictly positive.
	ErrNoMoments = errors.New("angular: zeroth moment must be positive")

	// ErrNaNMoment is returned when a moment is NaN or ±Inf.
	ErrNaNMoment = errors.New("angular: moment is NaN or Inf")
)
