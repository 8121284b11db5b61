package credential

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andreagrandi/jvm-wire/internal/app"
)

// FileSource keeps secrets in a NAME=value file readable only by the owner.
type FileSource struct {
	path string
}

// DefaultFilePath returns ~/.config/jvm-wire/credentials.
func DefaultFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", app.ConfigDirName, "credentials")
	}

	return filepath.Join(homeDir, ".config", app.ConfigDirName, "credentials")
}

// NewFileSource creates a source backed by path, or DefaultFilePath when
// path is empty.
func NewFileSource(path string) *FileSource {
	p := strings.TrimSpace(path)
	if p == "" {
		p = DefaultFilePath()
	}

	return &FileSource{path: p}
}

func (s *FileSource) Name() string { return "file" }

// Path returns the credentials file location.
func (s *FileSource) Path() string { return s.path }

// Lookup returns the stored value for name. Read errors count as not found.
func (s *FileSource) Lookup(name string) (string, bool) {
	key := strings.TrimSpace(name)
	if key == "" {
		return "", false
	}

	entries, err := s.load()
	if err != nil {
		return "", false
	}

	value, ok := entries[key]
	return value, ok
}

// Store sets name to value, creating the file if needed.
func (s *FileSource) Store(name string, value string) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return errors.New("credential name is required")
	}

	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("store credential %q: value must be a single line", key)
	}

	entries, err := s.load()
	if err != nil {
		return err
	}

	entries[key] = value
	return s.save(entries)
}

// Delete removes names from the file and reports how many were present.
// A missing file is not an error.
func (s *FileSource) Delete(names ...string) (int, error) {
	entries, err := s.load()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		key := strings.TrimSpace(name)
		if _, ok := entries[key]; !ok {
			continue
		}

		delete(entries, key)
		removed++
	}

	if removed == 0 {
		return 0, nil
	}

	return removed, s.save(entries)
}

// Names returns the stored credential names, sorted.
func (s *FileSource) Names() ([]string, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func (s *FileSource) load() (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("open credentials file %q: %w", s.path, err)
	}
	defer f.Close()

	entries, err := parseEntries(f)
	if err != nil {
		return nil, fmt.Errorf("read credentials file %q: %w", s.path, err)
	}

	return entries, nil
}

func parseEntries(r io.Reader) (map[string]string, error) {
	entries := map[string]string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}

		entries[name] = strings.TrimSpace(value)
	}

	return entries, scanner.Err()
}

func (s *FileSource) save(entries map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials directory %q: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# jvm-wire credentials\n")
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%s\n", name, entries[name])
	}

	if err := os.WriteFile(s.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write credentials file %q: %w", s.path, err)
	}

	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restrict credentials file %q: %w", s.path, err)
	}

	return nil
}
