// Copyright 2024 The Kelp Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const pidFilename = "kelp.pid"

// FileSystemDirectory persists segments and snapshot TOCs as plain files
// named <hex-id><kind>, one directory per index. Grounded on
// bluge/index/directory_fs.go's file naming and List/Persist/Remove
// shape. Two deliberate simplifications, both consequences of decisions
// already made in segment/kelpfmt: (1) Load reads a whole file into
// memory with os.ReadFile rather than mmap'ing it through
// blevesearch/mmap-go plus bluge's lock.LockedFile wrapper, since this
// codec always decodes a segment's bytes eagerly; (2) Lock/Unlock use a
// plain os.O_EXCL pid-file instead of the teacher's platform-specific
// advisory file locking package, since single-writer-per-process is all
// this index layer promises.
type FileSystemDirectory struct {
	path string

	newDirPerm  os.FileMode
	newFilePerm os.FileMode
}

func NewFileSystemDirectory(path string) *FileSystemDirectory {
	return &FileSystemDirectory{
		path:        path,
		newDirPerm:  0700,
		newFilePerm: 0600,
	}
}

func (d *FileSystemDirectory) exists() (bool, error) {
	_, err := os.Stat(d.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return true, err
}

func (d *FileSystemDirectory) Setup(readOnly bool) error {
	dirExists, err := d.exists()
	if err != nil {
		return fmt.Errorf("index: checking directory %q: %w", d.path, err)
	}
	if !dirExists {
		if readOnly {
			return fmt.Errorf("index: %q does not exist (read-only open)", d.path)
		}
		if err := os.MkdirAll(d.path, d.newDirPerm); err != nil {
			return fmt.Errorf("index: creating directory %q: %w", d.path, err)
		}
	}
	return nil
}

func (d *FileSystemDirectory) fileName(kind string, id uint64) string {
	return fmt.Sprintf("%012x%s", id, kind)
}

func (d *FileSystemDirectory) List(kind string) ([]uint64, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}

	var rv uint64Slice
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != kind {
			continue
		}
		base := name[:len(name)-len(kind)]
		id, err := strconv.ParseUint(base, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("index: parsing item id %q: %w", base, err)
		}
		rv = append(rv, id)
	}
	sort.Sort(sort.Reverse(rv))
	return rv, nil
}

func (d *FileSystemDirectory) Load(kind string, id uint64) ([]byte, error) {
	path := filepath.Join(d.path, d.fileName(kind, id))
	return os.ReadFile(path)
}

func (d *FileSystemDirectory) Persist(kind string, id uint64, w WriterTo, closeCh chan struct{}) error {
	path := filepath.Join(d.path, d.fileName(kind, id))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, d.newFilePerm)
	if err != nil {
		return err
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(path)
	}

	if _, err := w.WriteTo(f, closeCh); err != nil {
		cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return err
	}
	return nil
}

func (d *FileSystemDirectory) Remove(kind string, id uint64) error {
	path := filepath.Join(d.path, d.fileName(kind, id))
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *FileSystemDirectory) Stats() (numItems uint64, numBytes uint64) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if ext != ItemKindSegment && ext != ItemKindSnapshot {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		numItems++
		numBytes += uint64(info.Size())
	}
	return numItems, numBytes
}

func (d *FileSystemDirectory) Sync() error { return nil }

func (d *FileSystemDirectory) Lock() error {
	path := filepath.Join(d.path, pidFilename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, d.newFilePerm)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("index: directory %q already locked by another writer", d.path)
		}
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%d\n", os.Getpid())
	return err
}

func (d *FileSystemDirectory) Unlock() error {
	path := filepath.Join(d.path, pidFilename)
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ Directory = (*FileSystemDirectory)(nil)
