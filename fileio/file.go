// Package fileio implements the Generator Host's output side: files that
// preserve user-authored code islands across regenerations, and
// attribute-driven subdirectory bucketing. This package is deliberately
// small: the heavier identifier-mangling logic lives in host, which owns
// the attribute map these helpers consult.
package fileio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// File is one generated output: a path, the current indent level, an
// optional in-file scope object (used by drivers to resolve identifiers
// relative to what's currently being emitted), and the islands loaded from
// any pre-existing copy of the file.
type File struct {
	Path   string
	Indent int
	Scope  interface{ ID() string }

	islands    map[string]*Island
	referenced map[string]bool
	buf        bytes.Buffer
}

// Open creates a File for path. If existing is non-nil, it is parsed for
// code islands before any new content is written; those islands are then
// available via Island and, if never re-referenced by the new content,
// are re-emitted verbatim by Close.
func Open(path string, scope interface{ ID() string }, existing io.Reader) (*File, error) {
	f := &File{Path: path, Scope: scope, referenced: make(map[string]bool)}
	if existing != nil {
		islands, err := ParseIslands(existing)
		if err != nil {
			return nil, err
		}
		f.islands = islands
	}
	return f, nil
}

// Island looks up a previously-parsed island by id and marks it
// referenced, so Close will not re-emit it.
func (f *File) Island(id string) (*Island, bool) {
	isl, ok := f.islands[id]
	if ok {
		f.referenced[id] = true
	}
	return isl, ok
}

// WriteString appends s to the file's buffered content verbatim; unlike
// WriteLine it applies no indent.
func (f *File) WriteString(s string) {
	f.buf.WriteString(s)
}

// WriteLine writes s followed by a newline, indented by f.Indent levels of
// one tab each.
func (f *File) WriteLine(s string) {
	for i := 0; i < f.Indent; i++ {
		f.buf.WriteByte('\t')
	}
	f.buf.WriteString(s)
	f.buf.WriteByte('\n')
}

// Unreferenced returns the ids of every parsed island that Island was
// never called for, sorted so re-emission order is stable across runs.
// Close re-emits these and reports them as island-mismatch warnings.
func (f *File) Unreferenced() []string {
	var ids []string
	for id := range f.islands {
		if !f.referenced[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Close writes the buffered content to Path, followed by any unreferenced
// islands re-emitted verbatim, and returns their ids as warnings.
// Directories are created as needed.
func (f *File) Close() ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return nil, err
	}

	out, err := os.Create(f.Path)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := f.buf.WriteTo(out); err != nil {
		return nil, err
	}

	warnings := f.Unreferenced()
	for _, id := range warnings {
		if err := f.islands[id].Render(out); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

// ResolveDir buckets an output file of the given extension into a
// subdirectory of root: an attribute named after the extension (e.g. "h",
// "c") names that subdirectory; "hidden" names the directory for files
// with no public extension bucket, defaulting to ".corto".
func ResolveDir(root string, attrs map[string]string, ext string) string {
	if dir, ok := attrs[ext]; ok && dir != "" {
		return filepath.Join(root, dir)
	}
	hidden := attrs["hidden"]
	if hidden == "" {
		hidden = ".corto"
	}
	return filepath.Join(root, hidden)
}
