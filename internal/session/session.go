// Package session defines the interfaces for creating and driving an
// editing session. A session owns one marker document, at most one open
// explorer and the sample data used for previews; hosts talk to it in
// terms of canvas events and never touch the document directly.
package session

import (
	"context"
	"errors"

	"github.com/vk/hbsbind/internal/binding"
	"github.com/vk/hbsbind/internal/canvas"
	"github.com/vk/hbsbind/internal/config"
	"github.com/vk/hbsbind/internal/explorer"
	"github.com/vk/hbsbind/internal/hbs"
)

var (
	ErrClosed     = errors.New("session is closed")
	ErrNoExplorer = errors.New("no explorer is open")
)

// IssueUnresolved marks a top-level reference with no value in the sample.
const IssueUnresolved hbs.IssueCode = "UNRESOLVED_REFERENCE"

// ExportFunc receives the final template on export.
type ExportFunc func(ctx context.Context, template string) error

// Factory creates editing sessions. Implementations may keep the document
// in memory or elsewhere.
type Factory interface {
	NewSession(ctx context.Context, project *config.Project) (Session, error)
}

// Session is a single editing lifecycle, from loading a template to
// exporting it.
type Session interface {
	// Document returns a copy of the current document.
	Document() *hbs.Document
	// Markup renders the document for the canvas.
	Markup() string
	// Update replaces the document with markup edited on the canvas.
	Update(ctx context.Context, markup string) error

	// Insert adds a block template before the marker with the given ID,
	// or at the end for hbs.NoID, and returns the new marker IDs.
	Insert(ctx context.Context, kind canvas.BlockKind, before int) ([]int, error)
	// ElementAdded opens the explorer for the first new placeholder, if or
	// each marker among ids. It returns nil when none needs binding.
	ElementAdded(ctx context.Context, ids []int) (*explorer.Session, error)
	// DoubleClicked opens the explorer to rebind a marker.
	DoubleClicked(ctx context.Context, id int) (*explorer.Session, error)

	// Explorer returns the open explorer and the marker it targets.
	Explorer() (*explorer.Session, int, bool)
	// Confirm applies the open explorer's selection. On a validation error
	// the explorer stays open.
	Confirm(ctx context.Context) error
	// Cancel closes the open explorer without changes.
	Cancel(ctx context.Context)
	// Bind applies a binding without the explorer.
	Bind(ctx context.Context, id int, b binding.Binding) error

	// Check lists structural problems and unresolved references.
	Check(ctx context.Context) []hbs.Issue
	// Export serializes the document and hands it to the export callback.
	Export(ctx context.Context) (string, error)
	// Preview serializes the document and renders it against the sample.
	Preview(ctx context.Context) (string, error)

	// Close ends the session and cancels any open explorer. Later calls
	// that change or export the document fail with ErrClosed.
	Close(ctx context.Context) error
}
