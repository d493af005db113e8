package hcl

import "github.com/hashicorp/hcl/v2"

// projectFile is the decoding target for a whole project file.
type projectFile struct {
	Template   *templateBlock  `hcl:"template,block"`
	Sample     *dataBlock      `hcl:"sample_data,block"`
	DataSource *dataBlock      `hcl:"data_source,block"`
	Variables  []string        `hcl:"variables,optional"`
	ExportPath string          `hcl:"export_path,optional"`
	Bindings   []*bindingBlock `hcl:"binding,block"`
}

// templateBlock names the template by file or inline source.
type templateBlock struct {
	Path   string `hcl:"path,optional"`
	Source string `hcl:"source,optional"`
}

// dataBlock holds structured data, either from a file or inline.
type dataBlock struct {
	Path  string         `hcl:"path,optional"`
	Value hcl.Expression `hcl:"value,optional"`
}

// bindingBlock is a scripted binding: binding "<mode>" { ... }.
type bindingBlock struct {
	Mode   string `hcl:"mode,label"`
	Marker int    `hcl:"marker"`
	Path   string `hcl:"path"`
	From   *int   `hcl:"from,optional"`
	To     *int   `hcl:"to,optional"`
}
