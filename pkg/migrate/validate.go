package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const versionLayout = "20060102150405"

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// FileError describes one problem with one migration file.
type FileError struct {
	File   string
	Reason string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("migration %q: %s", e.File, e.Reason)
}

// ValidateDir validates the migrations in dir on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateEmbedded validates the migrations compiled into the binary.
func ValidateEmbedded() error {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	return ValidateFS(sub)
}

// ValidateFS checks every .sql file at the root of fsys and reports every
// problem found, one FileError each, combined with multierr.
func ValidateFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var errs error
	byVersion := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, &FileError{File: name, Reason: "name must look like YYYYMMDDHHMMSS_snake_case.sql"})
			continue
		}
		if _, err := time.Parse(versionLayout, m[1]); err != nil {
			errs = multierr.Append(errs, &FileError{File: name, Reason: "version is not a valid timestamp"})
		}
		if prev, ok := byVersion[m[1]]; ok {
			errs = multierr.Append(errs, &FileError{File: name, Reason: fmt.Sprintf("version %s already used by %q", m[1], prev)})
		} else {
			byVersion[m[1]] = name
		}

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %q: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, checkAnnotations(name, string(b)))
	}

	if errs == nil && len(byVersion) == 0 {
		return fmt.Errorf("no migrations found")
	}
	return errs
}

// checkAnnotations verifies the goose markers goose itself would reject at
// apply time.
func checkAnnotations(name, txt string) error {
	up := strings.Index(txt, "-- +goose Up")
	down := strings.Index(txt, "-- +goose Down")

	var errs error
	if up < 0 {
		errs = multierr.Append(errs, &FileError{File: name, Reason: `missing "-- +goose Up"`})
	}
	if down < 0 {
		errs = multierr.Append(errs, &FileError{File: name, Reason: `missing "-- +goose Down"`})
	}
	if up >= 0 && down >= 0 && down < up {
		errs = multierr.Append(errs, &FileError{File: name, Reason: "Down section comes before Up"})
	}
	if strings.Count(txt, "-- +goose StatementBegin") != strings.Count(txt, "-- +goose StatementEnd") {
		errs = multierr.Append(errs, &FileError{File: name, Reason: "unbalanced StatementBegin/StatementEnd"})
	}
	return errs
}
