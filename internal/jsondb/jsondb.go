// Package jsondb implements the flat-file JSON document store. Each named
// file holds one JSON object mapping string keys to arbitrary values, fully
// rewritten on every mutation.
package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Document is the in-memory form of one store file.
type Document map[string]json.RawMessage

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Store provides locked access to JSON document files under a root
// directory.
type Store struct {
	dir   string
	locks *FileLockManager
	log   *zap.SugaredLogger
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string, locks *FileLockManager, log *zap.SugaredLogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, locks: locks, log: log}, nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

// Read parses the named file. A missing or unreadable file yields an empty
// document, never an error.
func (s *Store) Read(file string) Document {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		return Document{}
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warnf("unreadable document %s, treating as empty: %v", file, err)
		return Document{}
	}
	return doc
}

// Write serializes the whole document and atomically replaces the file.
func (s *Store) Write(file string, doc Document) error {
	if doc == nil {
		doc = Document{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := s.path(file) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(file))
}

// Update runs a read-modify-write cycle under the file's advisory lock, so
// two concurrent updates on the same file never interleave within this
// process.
func (s *Store) Update(ctx context.Context, file string, mutate func(Document) (Document, error)) error {
	if err := s.locks.Acquire(ctx, file); err != nil {
		return err
	}
	defer s.locks.Release(file)

	doc, err := mutate(s.Read(file))
	if err != nil {
		return err
	}
	return s.Write(file, doc)
}

// Get unmarshals the value stored under key into out.
func (s *Store) Get(file, key string, out any) error {
	raw, ok := s.Read(file)[key]
	if !ok {
		return ErrKeyNotFound
	}
	return json.Unmarshal(raw, out)
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, file, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Update(ctx, file, func(doc Document) (Document, error) {
		doc[key] = raw
		return doc, nil
	})
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, file, key string) error {
	return s.Update(ctx, file, func(doc Document) (Document, error) {
		delete(doc, key)
		return doc, nil
	})
}

// Has reports whether key is present.
func (s *Store) Has(file, key string) bool {
	_, ok := s.Read(file)[key]
	return ok
}

// Keys returns all keys of the named file.
func (s *Store) Keys(file string) []string {
	doc := s.Read(file)
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	return keys
}

// Find returns the entries matching the predicate.
func (s *Store) Find(file string, match func(key string, raw json.RawMessage) bool) Document {
	found := Document{}
	for k, raw := range s.Read(file) {
		if match(k, raw) {
			found[k] = raw
		}
	}
	return found
}
