/*
Copyright 2026 jr42.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package duidstore implements dhcp6.DUIDStore by persisting the raw
// client DUID bytes as a single hex line in a file, the way wicked keeps
// /var/lib/wicked/duid.xml but reduced to the bytes the core actually
// needs (spec.md §4.2 "DUID persistence").
package duidstore

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a file-backed dhcp6.DUIDStore.
type Store struct {
	Path string
}

// New returns a Store persisting to path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Load reads and hex-decodes the stored DUID. A missing file is reported
// as a plain error so callers treat it the same as "nothing stored yet".
func (s *Store) Load() ([]byte, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, fmt.Errorf("duidstore: %s is empty", s.Path)
	}
	return hex.DecodeString(text)
}

// Save hex-encodes duid and writes it atomically (write to a temp file in
// the same directory, then rename) so a crash mid-write never leaves a
// truncated DUID behind.
func (s *Store) Save(duid []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("duidstore: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".duid-*.tmp")
	if err != nil {
		return fmt.Errorf("duidstore: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(hex.EncodeToString(duid) + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("duidstore: writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("duidstore: closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("duidstore: renaming into %s: %w", s.Path, err)
	}
	return nil
}
