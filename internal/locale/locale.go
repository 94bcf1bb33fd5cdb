// Package locale loads the string tables that label the screens.
package locale

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// ErrUnknown indicates no string table exists for the requested locale.
var ErrUnknown = errors.New("locale: unknown locale")

// Strings is a resolved string table. Keys missing from a locale file keep
// their English default.
type Strings struct {
	Title              string `yaml:"title" default:"Create contact"`
	SummaryTitle       string `yaml:"summary_title" default:"Contact summary"`
	ContactName        string `yaml:"contact_name" default:"Name"`
	ContactSurname     string `yaml:"contact_surname" default:"Surname"`
	ContactTelNum      string `yaml:"contact_telnum" default:"Tel"`
	NamePlaceholder    string `yaml:"name_placeholder" default:"First name"`
	SurnamePlaceholder string `yaml:"surname_placeholder" default:"Surname"`
	TelNumPlaceholder  string `yaml:"telnum_placeholder" default:"Telephone number"`
	ViewSummary        string `yaml:"view_summary" default:"View summary"`
	EmptySummary       string `yaml:"empty_summary" default:"No contact has been created yet."`
}

// Default returns the built-in English table.
func Default() Strings {
	var s Strings
	defaults.MustSet(&s)
	return s
}

// Prefixed renders a value behind its label, e.g. "Name: Jane".
func Prefixed(label, value string) string {
	return label + ": " + value
}

// Loader reads <locale>.yaml string tables from a filesystem.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a Loader over fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load resolves the string table for name. Unknown keys in the file are
// rejected so typos surface instead of silently falling back.
func (l *Loader) Load(name string) (Strings, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Strings{}, fmt.Errorf("locale: invalid locale name %q", name)
	}

	data, err := fs.ReadFile(l.fsys, name+".yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Strings{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknown, name, strings.Join(l.Available(), ", "))
		}
		return Strings{}, fmt.Errorf("locale: loading %s: %w", name, err)
	}

	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Strings{}, fmt.Errorf("locale: parsing %s: %w", name, err)
	}
	return s, nil
}

// Available returns the locale names found in the filesystem, sorted.
func (l *Loader) Available() []string {
	matches, err := fs.Glob(l.fsys, "*.yaml")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	sort.Strings(names)
	return names
}
