// Package template defines the template engine seam page renderers render
// through. The gotemplate subpackage provides the pongo2-backed engine.
package template
