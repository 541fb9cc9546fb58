// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctfio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateFailsWithoutOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trace")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if _, err := Create(dir, false); err == nil {
		t.Fatal("Create over an existing directory without overwrite should fail")
	}
}

func TestCreateOverwriteDeletesTopLevelFilesOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trace")
	sub := filepath.Join(dir, "subdir")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	keep := filepath.Join(sub, "keep")
	if err := os.WriteFile(keep, []byte("y"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// §6 requires overwrite to delete only the top-level entries and
	// never recurse into a subdirectory; a leftover subdirectory (and
	// whatever it contains) must survive.
	if _, err := Create(dir, true); err != nil {
		t.Fatalf("Create with overwrite: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stale")); !os.IsNotExist(err) {
		t.Error("top-level stale file should have been removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("file inside a subdirectory should survive overwrite: %v", err)
	}
}
