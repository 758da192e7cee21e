// Package banner holds the page's shared notification state: four mutually
// exclusive banner regions and a single content region.
//
// Board is the UI-state object every pipeline writes to. Writes are serialized
// by a mutex, so each one is atomic, but there is no queue and no severity
// ordering: when several pipelines settle concurrently, whichever write lands
// last is what the user sees.
package banner

import (
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/dom"
)

// Kind names a banner region.
type Kind string

const (
	None    Kind = ""
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// Kinds lists the four banner regions in document order.
var Kinds = []Kind{Success, Error, Warning, Info}

// Valid reports whether k names one of the four regions.
func (k Kind) Valid() bool {
	switch k {
	case Success, Error, Warning, Info:
		return true
	}
	return false
}

// Landmark returns the document landmark backing the region.
func (k Kind) Landmark() dom.Landmark {
	switch k {
	case Success:
		return dom.SuccessMessage
	case Error:
		return dom.ErrorMessage
	case Warning:
		return dom.WarningMessage
	case Info:
		return dom.InfoMessage
	}
	return ""
}

// Sanitizer cleans HTML fragments before they reach the content region.
// *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(html string) string
}

// Snapshot is a copy of the board state.
type Snapshot struct {
	Visible Kind
	Text    string
	Content string
}

// Option configures a Board.
type Option func(*Board)

// WithSurface mirrors every write onto a document.
func WithSurface(surface dom.Surface) Option {
	return func(b *Board) {
		b.surface = surface
	}
}

// WithSanitizer filters content fragments before they are stored.
func WithSanitizer(s Sanitizer) Option {
	return func(b *Board) {
		b.sanitizer = s
	}
}

// WithLogger sets the logger used for write tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Board is the single shared notification surface of a page.
type Board struct {
	mu sync.Mutex

	surface   dom.Surface
	sanitizer Sanitizer
	logger    *zap.Logger

	regions map[Kind]bool
	content bool

	visible Kind
	texts   map[Kind]string
	html    string
}

// New constructs a Board. When a surface is supplied its banner and content
// landmarks are resolved once here; regions the page lacks are skipped on
// every later write.
func New(options ...Option) *Board {
	b := &Board{
		logger: zap.NewNop(),
		texts:  make(map[Kind]string, len(Kinds)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}

	b.regions = make(map[Kind]bool, len(Kinds))
	for _, kind := range Kinds {
		b.regions[kind] = b.surface == nil || b.surface.Has(kind.Landmark())
	}
	b.content = b.surface == nil || b.surface.Has(dom.PDFViewer)
	return b
}

// Show hides every banner, then reveals kind with text. An unknown kind is a
// silent no-op and reports false.
func (b *Board) Show(kind Kind, text string) bool {
	if !kind.Valid() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearLocked()
	if !b.regions[kind] {
		b.logger.Debug("banner region missing", zap.String("kind", string(kind)))
		return true
	}
	b.texts[kind] = text
	b.visible = kind
	if b.surface != nil {
		b.surface.SetText(kind.Landmark(), text)
		b.surface.SetVisible(kind.Landmark(), true)
	}
	b.logger.Debug("banner shown", zap.String("kind", string(kind)))
	return true
}

// Clear hides all four banners.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *Board) clearLocked() {
	for _, kind := range Kinds {
		if b.surface != nil && b.regions[kind] {
			b.surface.SetVisible(kind.Landmark(), false)
		}
	}
	b.visible = None
}

// SetContent replaces the content region wholesale.
func (b *Board) SetContent(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sanitizer != nil {
		html = b.sanitizer.Sanitize(html)
	}
	if !b.content {
		b.logger.Debug("content region missing")
		return
	}
	b.html = html
	if b.surface != nil {
		b.surface.SetHTML(dom.PDFViewer, html)
	}
}

// ClearContent empties the content region.
func (b *Board) ClearContent() {
	b.SetContent("")
}

// Visible returns the banner currently displayed, or None.
func (b *Board) Visible() Kind {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Text returns the last text written to kind, visible or not.
func (b *Board) Text(kind Kind) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.texts[kind]
}

// Content returns the content region markup.
func (b *Board) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}

// Snapshot copies the visible banner, its text and the content region.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := Snapshot{Visible: b.visible, Content: b.html}
	if b.visible != None {
		snap.Text = b.texts[b.visible]
	}
	return snap
}
