// Package render compiles and executes templates with the Handlebars engine
// (github.com/mailgun/raymond/v2) and provides the slice helper used by
// ranged iteration blocks.
package render
