package config

import (
	"context"
	"fmt"
)

// DefaultTemplate is used when a project names no template.
const DefaultTemplate = "<div>{{title}}</div>"

// Loader reads a project description from path.
type Loader interface {
	Load(ctx context.Context, path string) (*Project, error)
}

// Project is the unified representation of a project file.
type Project struct {
	// Path is the file the project was loaded from, if any.
	Path string

	Template string
	// TemplatePath is where Template was read from, if it came from a file.
	TemplatePath string

	// Sample is the context previews and validation run against.
	Sample any
	// DataSource is the root the explorer navigates.
	DataSource any
	// Variables are name hints carried through for hosts; the core does
	// not use them.
	Variables []string

	ExportPath string
	Bindings   []*Binding
}

// Binding is a scripted binding applied when a session starts.
type Binding struct {
	Mode   string
	Marker int
	Path   string
	From   *int
	To     *int
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s binding on marker %d to %q", b.Mode, b.Marker, b.Path)
}

// Default returns the project used when nothing else is configured.
func Default() *Project {
	return &Project{
		Template:   DefaultTemplate,
		Sample:     map[string]any{"title": "Hello"},
		DataSource: map[string]any{},
		Variables:  []string{"title"},
	}
}
