/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero parses the registration date cell of a roster table, such
// as "2026-03-14" or "March 9, 2026". Blank cells and the "-" placeholder
// some league sheets use for an unknown date yield the zero time.
func ParseDateOrZero(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "null") {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}
