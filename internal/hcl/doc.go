// Package hcl provides the HCL implementation of config.Loader. It parses
// project files, evaluates inline data values through cty into plain Go
// values and reads JSON or YAML data files referenced from the project.
package hcl
