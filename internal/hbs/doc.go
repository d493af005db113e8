// Package hbs converts between a Handlebars-style template and an editable
// marker document.
//
// A Document is a flat, ordered list of nodes. Text nodes hold template text
// verbatim; marker nodes stand in for exactly one expression ({{path}},
// {{#if path}}, {{#each path}}, {{/if}}, {{/each}}, ...). Block markers are
// paired by ID with a stack when the document is built or repaired, so
// callers never need to walk siblings to find a matching close.
//
// Tokenize and Serialize are inverses for documents nobody has bound: every
// marker writes back its raw expression and every text node its text. The
// only synthesized output is the ranged iteration form
// {{#each (slice path from to)}} for each blocks bound with a range.
package hbs
