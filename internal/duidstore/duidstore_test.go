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

package duidstore

import (
	"path/filepath"
	"testing"
)

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "nested", "duid"))

	want := []byte{0x00, 0x01, 0x00, 0x01, 0xde, 0xad, 0xbe, 0xef}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing"))
	if _, err := store.Load(); err == nil {
		t.Fatal("expected an error loading a nonexistent DUID file")
	}
}

func TestStore_SaveOverwritesPreviousValue(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "duid"))

	if err := store.Save([]byte{0x01}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save([]byte{0x02, 0x03}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string([]byte{0x02, 0x03}) {
		t.Fatalf("got %x, want the second value", got)
	}
}
