/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
// Package store provides swiss.Store implementations backed by the local
// filesystem, plus a mirror that fans writes out to several stores.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir stores each document as a file under a directory.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	if root == "" {
		root = "."
	}
	return &Dir{root: root}
}

func (d *Dir) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("store.dir: invalid key %q", key)
	}
	return filepath.Join(d.root, clean), nil
}

// Put replaces the document under key, truncating any previous content.
func (d *Dir) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("store.dir: unable to create %v: %w", filepath.Dir(p),
			err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("store.dir: unable to write %v: %w", p, err)
	}
	return nil
}

// Get returns the whole document under key. A missing document yields an
// error matching fs.ErrNotExist.
func (d *Dir) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("store.dir: unable to read %v: %w", p, err)
	}
	return data, nil
}

// Delete removes the document under key. Deleting a missing document is not
// an error.
func (d *Dir) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store.dir: unable to delete %v: %w", p, err)
	}
	return nil
}
