/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "errors"

// Error kinds reported by tournament operations. Callers match them with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrValidation covers bad IDs, duplicate IDs, names containing digits,
	// too few teams to pair and operations illegal in the current round.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidScore is returned when a submitted score is missing or is not
	// an integer.
	ErrInvalidScore = errors.New("invalid score")

	// ErrNotFound is returned for operations on an unknown team.
	ErrNotFound = errors.New("not found")

	// ErrFormat is returned when a saved tournament document is malformed.
	ErrFormat = errors.New("malformed tournament document")

	// ErrAutoSave wraps a storage failure hit while auto-saving after a
	// state change that has already been applied.
	ErrAutoSave = errors.New("auto-save failed")
)
