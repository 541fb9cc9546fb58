// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctfio manages an output CTF trace directory: the metadata
// file and one or more binary stream files, with the same
// open-folder / open-stream / close-stream / write lifecycle the
// original converter's CTFProducer used (§6 "output layout").
package ctfio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/google/etw2ctf/ctf"
)

// Producer writes one CTF trace directory. At most one stream file is
// open for writing at a time.
type Producer struct {
	dir         string
	streamCount int
	current     *os.File
}

// Create prepares dir as an output trace directory. If dir already
// exists, Create fails unless overwrite is set, in which case the
// directory's top-level files are deleted; its subdirectories and
// their contents are kept.
func Create(dir string, overwrite bool) (*Producer, error) {
	if _, err := os.Stat(dir); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("ctfio: %s already exists", dir)
		}
		if err := removeDirContents(dir); err != nil {
			return nil, fmt.Errorf("ctfio: removing existing %s: %w", dir, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ctfio: creating %s: %w", dir, err)
	}
	return &Producer{dir: dir}, nil
}

// removeDirContents deletes dir's top-level files only (§6: "delete
// its files first — never recurse into subdirectories"), mirroring
// the original converter's OpenFolder: it walks FindFirstFile over a
// single directory level and calls DeleteFile on each entry, which
// fails (and is merely logged) for subdirectories rather than
// descending into them.
func removeDirContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			logrus.Warnf("ctfio: not erasing subdirectory %s", entry.Name())
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			logrus.WithError(err).Warnf("ctfio: could not erase %s", entry.Name())
		}
	}
	return nil
}

// OpenStream closes any currently open stream and opens a new one.
// When splitBuffer is set the file is named "stream<N>", N being the
// number of streams this Producer opened before it, starting at 0 (the
// --split-buffer convention, §13); otherwise the file is named
// "stream", and opening it again truncates it.
func (p *Producer) OpenStream(splitBuffer bool) error {
	if err := p.CloseStream(); err != nil {
		return err
	}
	name := "stream"
	if splitBuffer {
		name = fmt.Sprintf("stream%d", p.streamCount)
	}
	f, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return fmt.Errorf("ctfio: opening %s: %w", name, err)
	}
	p.current = f
	p.streamCount++
	return nil
}

// Write appends packet's encoded bytes to the currently open stream.
func (p *Producer) Write(packet *ctf.Buffer) error {
	if p.current == nil {
		return fmt.Errorf("ctfio: no open stream")
	}
	_, err := p.current.Write(packet.Bytes())
	return err
}

// CloseStream closes the currently open stream file, if any. It is a
// no-op when no stream is open.
func (p *Producer) CloseStream() error {
	if p.current == nil {
		return nil
	}
	err := p.current.Close()
	p.current = nil
	return err
}

// WriteMetadata serializes dict into the trace directory's metadata
// file.
func (p *Producer) WriteMetadata(dict *ctf.Dictionary) error {
	f, err := os.Create(filepath.Join(p.dir, "metadata"))
	if err != nil {
		return fmt.Errorf("ctfio: creating metadata: %w", err)
	}
	defer f.Close()
	return ctf.WriteMetadata(f, dict)
}

// Close closes any open stream. The metadata file is written
// separately, via WriteMetadata, once the dictionary is final.
func (p *Producer) Close() error {
	return p.CloseStream()
}
