/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3store keeps tournament documents in Amazon S3 and provides an
 * httpcache.Cache over the same bucket. The cache half is based on the
 * original github.com/sourcegraph/s3cache, updated to use aws-sdk-go-v2.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const URIScheme = "s3://"

// Bucket stores whole documents as objects in an S3 bucket.
type Bucket struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. By default this
	// is initialized in Init() with the default Config, but callers can
	// override it with their own client.
	Client *s3.Client

	bucketName string

	// prefix is prepended to every document key.
	prefix string

	// gzip indicates whether objects are gzipped on Put and gunzipped on Get.
	// If true, object keys get the suffix ".gz".
	gzip bool

	logErrors bool
}

// New returns a Bucket backed by the named S3 bucket. Callers should invoke
// Init() on the returned Bucket before use.
func New(bucketNameIn string, prefixIn string, gzipIn bool,
	logErrorsIn bool) *Bucket {

	return &Bucket{
		bucketName: bucketNameIn,
		prefix:     strings.Trim(prefixIn, "/"),
		gzip:       gzipIn,
		logErrors:  logErrorsIn,
	}
}

// ParseURI splits an s3://bucket/key URI. ok is false when uri does not use
// the s3 scheme.
func ParseURI(uri string) (bucket string, key string, ok bool, err error) {
	if !strings.HasPrefix(uri, URIScheme) {
		return "", "", false, nil
	}
	rest := strings.TrimPrefix(uri, URIScheme)
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", true, fmt.Errorf("s3store.parseuri: %q is not of the form s3://bucket/key",
			uri)
	}
	return bucket, key, true, nil
}

// The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// To use different credentials, modify the returned Bucket's Config and
// Client fields.
func (b *Bucket) Init(ctx context.Context) error {
	var err error
	b.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	b.Client = s3.NewFromConfig(b.Config)

	// Permission check: verify bucket exists and is accessible
	if _, err = b.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w",
			b.bucketName, err)
	}

	// Permission check: verify ability to list objects (read/list permissions)
	if _, err = b.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w",
			b.bucketName, err)
	}

	return nil
}

// ObjectKey returns the object key a document key is stored under.
func (b *Bucket) ObjectKey(key string) string {
	objKey := strings.TrimPrefix(key, "/")
	if b.prefix != "" {
		objKey = path.Join(b.prefix, objKey)
	}
	if b.gzip {
		objKey += ".gz"
	}
	return objKey
}

// Put replaces the object stored under key.
func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	return b.putObject(ctx, b.ObjectKey(key), data)
}

// Get returns the object stored under key. A missing object yields an error
// matching fs.ErrNotExist.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	return b.getObject(ctx, b.ObjectKey(key))
}

// Delete removes the object stored under key.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	return b.deleteObject(ctx, b.ObjectKey(key))
}

func (b *Bucket) putObject(ctx context.Context, objKey string,
	data []byte) error {

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objKey),
		Body:   bytes.NewReader(data),
	}

	if b.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3store.put: failed to gzip data for %v/%v: %w",
				b.bucketName, objKey, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3store.put: failed to close gzip writer for %v/%v: %w",
				b.bucketName, objKey, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3store.put: put failed for %v/%v: %w", b.bucketName,
			objKey, err)
	}
	return nil
}

func (b *Bucket) getObject(ctx context.Context, objKey string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objKey),
	}

	resp, err := b.Client.GetObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("s3store.get: %v/%v: %w", b.bucketName, objKey,
				fs.ErrNotExist)
		}
		return nil, fmt.Errorf("s3store.get: failed to get object %v/%v: %w",
			b.bucketName, objKey, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if b.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("s3store.get: failed to open compressed object %v/%v: %w",
				b.bucketName, objKey, err)
		}

		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3store.get: failed to read object %v/%v: %w",
			b.bucketName, objKey, err)
	}

	return data, nil
}

func (b *Bucket) deleteObject(ctx context.Context, objKey string) error {
	_, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return fmt.Errorf("s3store.delete: delete failed for %v/%v: %w",
			b.bucketName, objKey, err)
	}
	return nil
}

func (b *Bucket) logf(format string, args ...any) {
	if b.logErrors {
		log.Printf(format, args...)
	}
}
