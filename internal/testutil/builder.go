package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/alloy/internal/declare"
)

// Builder accumulates template declarations and writes them to a templates directory.
type Builder struct {
	t     *testing.T
	dir   string
	files map[string][]declare.TemplateDef
	raw   map[string]string
	order []string
}

// NewBuilder creates a builder writing into a fresh temporary directory.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{
		t:     t,
		dir:   t.TempDir(),
		files: make(map[string][]declare.TemplateDef),
		raw:   make(map[string]string),
	}
}

// WithTemplate adds a template declaration to file (a YAML file name
// relative to the directory).
func (b *Builder) WithTemplate(file, name string, opts ...TemplateOption) *Builder {
	def := declare.TemplateDef{Name: name}
	for _, opt := range opts {
		opt(&def)
	}
	b.track(file)
	b.files[file] = append(b.files[file], def)
	return b
}

// WithFile adds a file with literal content, such as HCL or a broken declaration.
func (b *Builder) WithFile(file, content string) *Builder {
	b.track(file)
	b.raw[file] = content
	return b
}

func (b *Builder) track(file string) {
	if _, ok := b.files[file]; ok {
		return
	}
	if _, ok := b.raw[file]; ok {
		return
	}
	b.order = append(b.order, file)
}

// Build writes every file and returns the directory.
func (b *Builder) Build() string {
	b.t.Helper()
	for _, file := range b.order {
		path := filepath.Join(b.dir, filepath.FromSlash(file))
		require.NoError(b.t, os.MkdirAll(filepath.Dir(path), 0o755))

		if content, ok := b.raw[file]; ok {
			require.NoError(b.t, os.WriteFile(path, []byte(content), 0o644))
			continue
		}

		data, err := yaml.Marshal(declare.File{Templates: b.files[file]})
		require.NoError(b.t, err)
		require.NoError(b.t, os.WriteFile(path, data, 0o644))
	}
	return b.dir
}
