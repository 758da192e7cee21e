// Package pages serves the page shells of the certificate app.
//
// Each known route maps to one page kind. The handler builds the kind's shell
// from the API contract and renders it through a render.Registry, HTML by
// default or JSON with ?format=json. The browser bundle then wires the page by
// landmark id. Stylesheets and an optional static directory (for the wasm
// bundle) are mounted next to the pages.
package pages
