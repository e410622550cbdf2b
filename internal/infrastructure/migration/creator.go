package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var (
	upTemplate = template.Must(template.New("up").Parse(`-- Migration: {{.Name}}
-- Created: {{.Created}}
-- Description: {{.Description}}

`))
	downTemplate = template.Must(template.New("down").Parse(`-- Migration: {{.Name}} (Rollback)
-- Created: {{.Created}}

`))
)

// File is one migration pair on disk
type File struct {
	Version     uint64
	Name        string
	Description string
	Created     string
	UpPath      string
	DownPath    string
}

// Create writes an empty up/down pair named <timestamp>_<name> into dir
func Create(dir, name, description string, now time.Time) (*File, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	stamp := now.UTC().Format("20060102150405")
	version, _ := strconv.ParseUint(stamp, 10, 64)
	base := filepath.Join(dir, stamp+"_"+slug)

	f := &File{
		Version:     version,
		Name:        slug,
		Description: description,
		Created:     now.UTC().Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := render(f.UpPath, upTemplate, f); err != nil {
		return nil, err
	}
	if err := render(f.DownPath, downTemplate, f); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func render(path string, tmpl *template.Template, data *File) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer out.Close()
	return tmpl.Execute(out, data)
}

// slugify lowercases name and collapses separators into single underscores
func slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// Migration is an entry found in a migration source
type Migration struct {
	Version uint64
	Name    string
	HasDown bool
}

// List returns the migrations in source ordered by version. Files that do
// not follow <version>_<name>.(up|down).sql are ignored.
func List(source fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[uint64]*Migration)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, direction, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		mig, exists := byVersion[version]
		if !exists {
			mig = &Migration{Version: version, Name: name}
			byVersion[version] = mig
		}
		if direction == "down" {
			mig.HasDown = true
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		out = append(out, *mig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func parseFileName(file string) (version uint64, name, direction string, ok bool) {
	var rest string
	switch {
	case strings.HasSuffix(file, ".up.sql"):
		rest, direction = strings.TrimSuffix(file, ".up.sql"), "up"
	case strings.HasSuffix(file, ".down.sql"):
		rest, direction = strings.TrimSuffix(file, ".down.sql"), "down"
	default:
		return 0, "", "", false
	}

	num, name, found := strings.Cut(rest, "_")
	if !found || name == "" {
		return 0, "", "", false
	}
	version, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, "", "", false
	}
	return version, name, direction, true
}
