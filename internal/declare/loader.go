package declare

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	stdpath "path"
	"path/filepath"
	"strings"

	"github.com/zjrosen/alloy/internal/catalog"
	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

// IsDeclarationFile reports whether name has a declaration file extension.
func IsDeclarationFile(name string) bool {
	switch strings.ToLower(stdpath.Ext(name)) {
	case ".yaml", ".yml", ".hcl":
		return true
	}
	return false
}

// ParseFile decodes a declaration file, choosing the format by extension.
func ParseFile(name string, data []byte) ([]TemplateDef, error) {
	switch strings.ToLower(stdpath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
}

// LoadFS compiles every declaration file under root, in lexical path order.
// Templates may use templates from earlier files as ingredients.
func (c *Compiler) LoadFS(fsys fs.FS, root string, source catalog.Source) ([]catalog.Entry, error) {
	var (
		entries []catalog.Entry
		local   = make(map[string]*variant.Template)
	)

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsDeclarationFile(d.Name()) {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		defs, err := ParseFile(path, content)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for _, def := range defs {
			t, err := c.Compile(def, local)
			if err != nil {
				return fmt.Errorf("template %s in %s: %w", def.Name, path, err)
			}
			if _, dup := local[t.Name()]; dup {
				return fmt.Errorf("template %s in %s: %w", def.Name, path, catalog.ErrDuplicateName)
			}
			local[t.Name()] = t
			entries = append(entries, catalog.Entry{Template: t, Source: source, Path: path})
		}

		log.Debug(log.CatDeclare, "Loaded declarations", "path", path, "templates", len(defs))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan declarations: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrNoTemplates
	}
	return entries, nil
}

// LoadDir compiles the declarations in a user directory. A missing or empty
// directory yields no entries and no error.
func (c *Compiler) LoadDir(dir string) ([]catalog.Entry, error) {
	if dir == "" {
		return nil, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat templates dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates dir %s is not a directory", dir)
	}

	entries, err := c.LoadFS(os.DirFS(dir), ".", catalog.SourceUser)
	if errors.Is(err, ErrNoTemplates) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Path = filepath.Join(dir, filepath.FromSlash(entries[i].Path))
	}
	return entries, nil
}
