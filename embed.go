// Package contactbus provides embedded runtime resources (locale string
// tables) and an overlay filesystem that checks local disk first, falling
// back to embedded.
package contactbus

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed locales/*.yaml
var rawLocales embed.FS

// Locales is the embedded locales filesystem with the "locales/" prefix stripped.
var Locales = mustSub(rawLocales, "locales")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
// Directory listings merge both sources.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	f, err := os.Open(filepath.Join(o.localDir, filepath.FromSlash(name)))
	if err == nil {
		return f, nil
	}
	return o.embedded.Open(name)
}

// ReadDir lists name from both sources; local entries shadow embedded ones.
func (o overlayFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	byName := make(map[string]fs.DirEntry)
	embedded, embErr := fs.ReadDir(o.embedded, name)
	for _, e := range embedded {
		byName[e.Name()] = e
	}
	local, localErr := os.ReadDir(filepath.Join(o.localDir, filepath.FromSlash(name)))
	for _, e := range local {
		byName[e.Name()] = e
	}

	if embErr != nil && localErr != nil {
		if errors.Is(localErr, fs.ErrNotExist) {
			return nil, embErr
		}
		return nil, localErr
	}

	entries := make([]fs.DirEntry, 0, len(byName))
	for _, e := range byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}
