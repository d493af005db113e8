// Package explorer holds the drill-down state behind the data picker.
//
// A Session walks a binding root one container at a time, lists the
// members of the current container as cards, keeps at most one card
// selected and produces a Selection once the user confirms. Previews are
// computed against a separate sample context so that what the user sees is
// what the rendered template will show. The package has no UI of its own;
// internal/tui draws a Session in a terminal.
package explorer
