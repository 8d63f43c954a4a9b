/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikeb26/trugo-td/internal"
	"github.com/mikeb26/trugo-td/swiss"
	"golang.org/x/sync/errgroup"
)

// Fetcher loads rosters from local files and http(s) URLs.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher using client for URL sources; nil selects
// http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch loads one roster. URLs serving HTML and local .html/.htm files are
// parsed as HTML tables; everything else as a plain text roster.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]swiss.TeamSpec, error) {
	var data []byte
	var html bool

	if isURL(src) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("roster.fetch: %w", err)
		}
		req.Header.Set("User-Agent", internal.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("roster.fetch: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("roster.fetch: status %d fetching %s",
				resp.StatusCode, src)
		}
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("roster.fetch: reading %s: %w", src, err)
		}
		html = strings.Contains(resp.Header.Get("Content-Type"), "html")
	} else {
		var err error
		data, err = os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("roster.fetch: %w", err)
		}
		ext := strings.ToLower(filepath.Ext(src))
		html = ext == ".html" || ext == ".htm"
	}

	var specs []swiss.TeamSpec
	var err error
	if html {
		specs, err = ParseHTML(bytes.NewReader(data))
	} else {
		specs, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", src, err)
	}
	return specs, nil
}

// FetchAll loads every source concurrently and concatenates the rosters in
// argument order. The first failure cancels the remaining fetches.
func (f *Fetcher) FetchAll(ctx context.Context,
	srcs ...string) ([]swiss.TeamSpec, error) {

	results := make([][]swiss.TeamSpec, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	for idx, src := range srcs {
		g.Go(func() error {
			specs, err := f.Fetch(ctx, src)
			if err != nil {
				return err
			}
			results[idx] = specs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []swiss.TeamSpec
	for _, specs := range results {
		all = append(all, specs...)
	}
	return all, nil
}
