/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent          = "trugo-td/0.1.0 (+https://github.com/mikeb26/trugo-td)"
	DefaultCacheMaxAge = 15 * time.Minute
	EnvFile            = ".env"
)
