// Package dom describes the slice of a page document the controller talks to.
//
// Landmarks are stable string keys for named places in the page (forms, file
// inputs, banner regions, the content region, the wallet status label). A
// Document reports which landmarks exist, attaches event handlers to them, and
// applies the handful of mutations the controller performs. Browser builds use
// the syscall/js implementation in pkg/dom/jsdom; tests and the terminal
// front-end use the in-memory Memory document.
package dom
