/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

const cachePathPrefix = "httpcache"

// Cache adapts a Bucket to the httpcache.Cache interface. Failures are
// treated as cache misses and logged when the Bucket was created with
// logErrors.
type Cache struct {
	bucket *Bucket

	// The context to specify when initiating s3 requests
	ctx context.Context
}

// HTTPCache returns an httpcache.Cache storing entries in b under an
// "httpcache" folder next to the documents.
func (b *Bucket) HTTPCache(ctx context.Context) *Cache {
	return &Cache{bucket: b, ctx: ctx}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	objKey := c.cacheKeyToObjectKey(key)
	data, err := c.bucket.getObject(c.ctx, objKey)
	if err != nil {
		// no such key just indicates a cache miss
		if !errors.Is(err, fs.ErrNotExist) {
			c.bucket.logf("s3store.cache.get: %v", err)
		}
		return []byte{}, false
	}
	return data, true
}

// Set stores the provided data in the cache under the given key.
func (c *Cache) Set(key string, data []byte) {
	if err := c.bucket.putObject(c.ctx, c.cacheKeyToObjectKey(key), data); err != nil {
		c.bucket.logf("s3store.cache.set: %v", err)
	}
}

func (c *Cache) Delete(key string) {
	if err := c.bucket.deleteObject(c.ctx, c.cacheKeyToObjectKey(key)); err != nil {
		c.bucket.logf("s3store.cache.delete: %v", err)
	}
}

func (c *Cache) cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := path.Join(c.bucket.prefix, cachePathPrefix,
		hex.EncodeToString(h.Sum(nil)))
	if c.bucket.gzip {
		objKey += ".gz"
	}

	return objKey
}

// String identifies the cache in log output.
func (c *Cache) String() string {
	return fmt.Sprintf("s3://%v/%v", c.bucket.bucketName,
		path.Join(c.bucket.prefix, cachePathPrefix))
}
