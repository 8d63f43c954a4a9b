/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"fmt"
	"log"

	"github.com/mikeb26/trugo-td/swiss"
	"golang.org/x/sync/errgroup"
)

// Mirror writes every document to all of its stores and reads from the
// first one that has it.
type Mirror struct {
	stores []swiss.Store
}

// NewMirror returns a Mirror over stores. Reads try the stores in the order
// given.
func NewMirror(primary swiss.Store, others ...swiss.Store) *Mirror {
	return &Mirror{stores: append([]swiss.Store{primary}, others...)}
}

// Put writes data to every store concurrently and returns the first failure.
func (m *Mirror) Put(ctx context.Context, key string, data []byte) error {
	g, gctx := errgroup.WithContext(ctx)
	for idx, s := range m.stores {
		g.Go(func() error {
			if err := s.Put(gctx, key, data); err != nil {
				return fmt.Errorf("store.mirror: put %v to store %v: %w", key, idx,
					err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Deleter is implemented by stores that can remove a document.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Delete removes the document from every store concurrently. Every store
// must implement Deleter.
func (m *Mirror) Delete(ctx context.Context, key string) error {
	for idx, s := range m.stores {
		if _, ok := s.(Deleter); !ok {
			return fmt.Errorf("store.mirror: store %v cannot delete %v", idx, key)
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	for idx, s := range m.stores {
		g.Go(func() error {
			if err := s.(Deleter).Delete(gctx, key); err != nil {
				return fmt.Errorf("store.mirror: delete %v from store %v: %w", key,
					idx, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Get returns the document from the first store that can supply it.
func (m *Mirror) Get(ctx context.Context, key string) ([]byte, error) {
	var firstErr error
	for idx, s := range m.stores {
		data, err := s.Get(ctx, key)
		if err == nil {
			if idx > 0 {
				log.Printf("store.mirror: %v served from store %v: %v", key, idx,
					firstErr)
			}
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, firstErr
}
