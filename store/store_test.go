/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mikeb26/trugo-td/swiss"
)

func TestDirPutGet(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := NewDir(root)

	if err := d.Put(ctx, "Copa.txt", []byte("first version, longer")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := d.Put(ctx, "Copa.txt", []byte("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := d.Get(ctx, "Copa.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Get() = %q; want %q (file not truncated?)", data, "second")
	}

	onDisk, err := os.ReadFile(filepath.Join(root, "Copa.txt"))
	if err != nil || string(onDisk) != "second" {
		t.Errorf("file contents = %q, %v", onDisk, err)
	}

	if err := d.Put(ctx, "sub/dir/state.txt", []byte("x")); err != nil {
		t.Errorf("Put into a nested key: %v", err)
	}
}

func TestDirMissingAndInvalidKeys(t *testing.T) {
	ctx := context.Background()
	d := NewDir(t.TempDir())

	if _, err := d.Get(ctx, "missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Get(missing) = %v; want fs.ErrNotExist", err)
	}
	for _, key := range []string{"", ".", "..", "../escape.txt", "/etc/x"} {
		if err := d.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("Put(%q) succeeded; want error", key)
		}
	}
	if err := d.Delete(ctx, "missing.txt"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestDirRoundTripsTournament(t *testing.T) {
	ctx := context.Background()
	d := NewDir(t.TempDir())
	tourney := swiss.New("Copa Trugo")
	for _, spec := range []swiss.TeamSpec{{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Beta"}, {ID: "3", Name: "Gamma"}} {
		if _, err := tourney.RegisterTeam(spec.ID, spec.Name); err != nil {
			t.Fatalf("RegisterTeam: %v", err)
		}
	}
	tourney.SetAutoSave(d, "")
	if _, err := tourney.GenerateNextRound(ctx); err != nil {
		t.Fatalf("GenerateNextRound: %v", err)
	}

	loaded := swiss.New("")
	if err := loaded.Load(ctx, d, swiss.FileName("Copa Trugo")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Round() != 1 || len(loaded.Matches()) != 2 {
		t.Errorf("loaded round=%v matches=%v", loaded.Round(), loaded.Matches())
	}
}

type recordingStore struct {
	mu   sync.Mutex
	docs map[string][]byte
	err  error
}

func (s *recordingStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.docs == nil {
		s.docs = make(map[string][]byte)
	}
	s.docs[key] = data
	return nil
}

func (s *recordingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.docs[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (s *recordingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.docs, key)
	return nil
}

// readOnlyStore hides the Delete method of the store it wraps.
type readOnlyStore struct {
	swiss.Store
}

func TestMirrorDelete(t *testing.T) {
	ctx := context.Background()
	dir := NewDir(t.TempDir())
	rec := &recordingStore{}
	m := NewMirror(dir, rec)
	if err := m.Put(ctx, "state.txt", []byte("doc")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := m.Delete(ctx, "state.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := dir.Get(ctx, "state.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("dir still has the document: %v", err)
	}
	if _, ok := rec.docs["state.txt"]; ok {
		t.Errorf("mirror store still has the document")
	}

	boom := errors.New("bucket unavailable")
	if err := NewMirror(dir, &recordingStore{err: boom}).Delete(ctx,
		"state.txt"); !errors.Is(err, boom) {
		t.Errorf("Delete() = %v; want %v", err, boom)
	}

	ro := NewMirror(dir, readOnlyStore{rec})
	if err := ro.Put(ctx, "kept.txt", []byte("doc")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := ro.Delete(ctx, "kept.txt"); err == nil {
		t.Errorf("Delete through a store without Delete succeeded")
	}
	if _, err := dir.Get(ctx, "kept.txt"); err != nil {
		t.Errorf("document removed before the unsupported store was found: %v", err)
	}
}

func TestMirrorWritesEveryStore(t *testing.T) {
	ctx := context.Background()
	a, b, c := &recordingStore{}, &recordingStore{}, &recordingStore{}
	m := NewMirror(a, b, c)

	if err := m.Put(ctx, "state.txt", []byte("doc")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	for i, s := range []*recordingStore{a, b, c} {
		if string(s.docs["state.txt"]) != "doc" {
			t.Errorf("store %d missing document", i)
		}
	}
}

func TestMirrorReportsFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("bucket unavailable")
	good, bad := &recordingStore{}, &recordingStore{err: boom}
	m := NewMirror(good, bad)

	if err := m.Put(ctx, "state.txt", []byte("doc")); !errors.Is(err, boom) {
		t.Errorf("Put() = %v; want %v", err, boom)
	}
}

func TestMirrorGetFallsBack(t *testing.T) {
	ctx := context.Background()
	primary := &recordingStore{}
	secondary := &recordingStore{docs: map[string][]byte{"state.txt": []byte("backup")}}
	m := NewMirror(primary, secondary)

	data, err := m.Get(ctx, "state.txt")
	if err != nil || string(data) != "backup" {
		t.Errorf("Get() = %q, %v; want backup", data, err)
	}
	if _, err := m.Get(ctx, "other.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Get(missing) = %v; want fs.ErrNotExist", err)
	}
}
