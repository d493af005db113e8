// Package canvas bridges marker documents and the HTML a visual editor
// works on.
//
// Every marker becomes a leaf element:
//
//	<span data-hbs="{{title}}" data-hbs-id="3" class="hbs-token">Hello</span>
//
// carrying its binding in data-source, data-range-from, data-range-to and
// data-hbs-processed. Parse reads the same attributes back so that a
// document survives a trip through the editor with IDs and bindings intact.
// Markers that sit inside a tag or inside raw-text elements such as <style>
// cannot be wrapped and are written as their bare expression instead.
package canvas
