// Package tui is a terminal front end for the data explorer. It shows the
// cards of the current container, the breadcrumb and the live preview, and
// lets the user pick a path and, for iterations, an index window.
package tui
