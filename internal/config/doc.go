// Package config defines the format-agnostic project model and the Loader
// interface that fills it.
//
// A Project is everything an editing session starts from: the template, the
// sample context used for previews, the bindable data root, variable hints,
// where the result is exported and any bindings to apply up front. Concrete
// loaders, such as the HCL one in internal/hcl, live in separate packages.
package config
