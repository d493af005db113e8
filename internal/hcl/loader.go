package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/hbsbind/internal/config"
	"github.com/vk/hbsbind/internal/ctxlog"
	"github.com/vk/hbsbind/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL project loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the project file at path, or the only .hcl file directly
// inside path when it is a directory, and resolves every file it refers to
// relative to the project's directory. Anything the file leaves out
// takes the value from config.Default.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	path, err := fsutil.ResolveFile(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find project file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, diags)
	}

	var root projectFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode project file %s: %w", path, diags)
	}

	project := config.Default()
	project.Path = path
	dir := filepath.Dir(path)

	if err := l.translateTemplate(ctx, dir, root.Template, project); err != nil {
		return nil, err
	}

	sample, err := l.translateData(ctx, dir, "sample_data", root.Sample)
	if err != nil {
		return nil, err
	}
	if sample != nil {
		project.Sample = sample
	}

	source, err := l.translateData(ctx, dir, "data_source", root.DataSource)
	if err != nil {
		return nil, err
	}
	if source != nil {
		project.DataSource = source
	}

	if root.Variables != nil {
		project.Variables = root.Variables
	}
	if root.ExportPath != "" {
		project.ExportPath = resolve(dir, root.ExportPath)
	}
	for _, b := range root.Bindings {
		project.Bindings = append(project.Bindings, &config.Binding{
			Mode:   b.Mode,
			Marker: b.Marker,
			Path:   b.Path,
			From:   b.From,
			To:     b.To,
		})
	}

	logger.Debug("HCL loading complete.", "template_bytes", len(project.Template), "bindings", len(project.Bindings))
	return project, nil
}

func (l *Loader) translateTemplate(ctx context.Context, dir string, block *templateBlock, project *config.Project) error {
	if block == nil {
		return nil
	}
	switch {
	case block.Path != "" && block.Source != "":
		return fmt.Errorf("template block sets both path and source; choose one")
	case block.Path != "":
		p := resolve(dir, block.Path)
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}
		project.Template = string(b)
		project.TemplatePath = p
		ctxlog.FromContext(ctx).Debug("Template read from file.", "path", p, "bytes", len(b))
	case block.Source != "":
		project.Template = block.Source
	}
	return nil
}

// translateData returns nil when the block is absent or empty.
func (l *Loader) translateData(ctx context.Context, dir, name string, block *dataBlock) (any, error) {
	if block == nil {
		return nil, nil
	}
	hasValue := isExprDefined(ctx, block.Value, name+".value")
	switch {
	case block.Path != "" && hasValue:
		return nil, fmt.Errorf("%s block sets both path and value; choose one", name)
	case block.Path != "":
		return readDataFile(ctx, resolve(dir, block.Path))
	case hasValue:
		val, diags := block.Value.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid %s value: %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", name, err)
		}
		return native, nil
	}
	return nil, nil
}

// isExprDefined reports whether an optional attribute was actually written.
// gohcl fills omitted expression fields with a zero-width placeholder, so a
// nil check alone is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checked optional attribute.", "attribute", attrName, "hcl_range", r.String(), "is_defined", defined)
	return defined
}

func resolve(dir, p string) string {
	if p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
