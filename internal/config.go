/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mikeb26/trugo-td/swiss"
)

// Config holds the settings shared by the trugo binaries.
type Config struct {
	// StateDir is where tournament documents without an explicit path are
	// kept.
	StateDir string `env:"TRUGO_STATE_DIR" envDefault:"."`

	// S3Bucket, when set, mirrors every saved document to this bucket.
	S3Bucket string `env:"TRUGO_S3_BUCKET"`
	S3Prefix string `env:"TRUGO_S3_PREFIX" envDefault:"tournaments"`

	// CacheBucket holds the HTTP cache used by roster imports. Empty selects
	// an in-memory cache.
	CacheBucket string        `env:"TRUGO_CACHE_BUCKET"`
	CacheMaxAge time.Duration `env:"TRUGO_CACHE_MAX_AGE" envDefault:"15m"`

	ByeScore string `env:"TRUGO_BYE_SCORE" envDefault:"optional"`

	DiscordWebhook string `env:"TRUGO_DISCORD_WEBHOOK"`
}

// ByeScorePolicy returns the parsed TRUGO_BYE_SCORE setting.
func (c *Config) ByeScorePolicy() (swiss.ByeScorePolicy, error) {
	return swiss.ParseByeScorePolicy(c.ByeScore)
}

// LoadConfig reads the configuration from the environment after loading
// envFiles (EnvFile when none are given). Missing env files are not an
// error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{EnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("internal.loadconfig: unable to load %v: %w", f,
				err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("internal.loadconfig: parse env: %w", err)
	}
	if _, err := cfg.ByeScorePolicy(); err != nil {
		return nil, fmt.Errorf("internal.loadconfig: TRUGO_BYE_SCORE: %w", err)
	}
	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = DefaultCacheMaxAge
	}

	return &cfg, nil
}
