//go:build js && wasm

// Package jsdom implements dom.Document over the browser DOM.
//
// Event callbacks return to the JavaScript event loop immediately; each
// handler runs on its own goroutine so a pending request never blocks the
// page. Calls that wait on a JavaScript promise must not run on the callback
// goroutine itself.
package jsdom

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/dom"
)

// RoleCardSelector matches every role card in the page.
const RoleCardSelector = ".role-card"

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the event logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Document is the live browser document.
type Document struct {
	ctx    context.Context
	doc    js.Value
	win    js.Value
	logger *zap.Logger

	mu    sync.Mutex
	funcs []js.Func
}

var _ dom.Document = (*Document)(nil)

// New wraps the global document. ctx is handed to every handler and lives as
// long as the page.
func New(ctx context.Context, options ...Option) *Document {
	d := &Document{
		ctx:    ctx,
		doc:    js.Global().Get("document"),
		win:    js.Global(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Body returns the value of a data attribute on the body element.
func (d *Document) Body(attr string) string {
	body := d.doc.Get("body")
	if !truthy(body) {
		return ""
	}
	return attrOf(body, attr)
}

// Release frees every callback registered with the JavaScript runtime.
func (d *Document) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, fn := range d.funcs {
		fn.Release()
	}
	d.funcs = nil
}

func (d *Document) elements(l dom.Landmark) []js.Value {
	if l == dom.RoleCard {
		list := d.doc.Call("querySelectorAll", RoleCardSelector)
		out := make([]js.Value, 0, list.Length())
		for i := 0; i < list.Length(); i++ {
			out = append(out, list.Index(i))
		}
		return out
	}
	el := d.doc.Call("getElementById", string(l))
	if !truthy(el) {
		return nil
	}
	return []js.Value{el}
}

func (d *Document) element(l dom.Landmark) (js.Value, bool) {
	els := d.elements(l)
	if len(els) == 0 {
		return js.Undefined(), false
	}
	return els[0], true
}

func (d *Document) Has(l dom.Landmark) bool {
	return len(d.elements(l)) > 0
}

func (d *Document) SetText(l dom.Landmark, text string) {
	if el, ok := d.element(l); ok {
		el.Set("textContent", text)
	}
}

func (d *Document) SetHTML(l dom.Landmark, html string) {
	if el, ok := d.element(l); ok {
		el.Set("innerHTML", html)
	}
}

func (d *Document) SetVisible(l dom.Landmark, visible bool) {
	el, ok := d.element(l)
	if !ok {
		return
	}
	display := "none"
	if visible {
		display = "block"
	}
	el.Get("style").Set("display", display)
}

func (d *Document) Navigate(url string) {
	d.win.Get("location").Set("href", url)
}

func (d *Document) Alert(message string) {
	d.win.Call("alert", message)
}

func (d *Document) Reset(l dom.Landmark) {
	if el, ok := d.element(l); ok && el.Get("reset").Type() == js.TypeFunction {
		el.Call("reset")
	}
}

func (d *Document) OnSubmit(l dom.Landmark, h dom.SubmitHandler) error {
	return d.listen(l, "submit", func(el, event js.Value) {
		event.Call("preventDefault")
		fields := formFields(el)
		go h(d.ctx, fields)
	})
}

// OnChange reports file selections. The input keeps its value after an
// upload, so choosing the same file again fires no change event and does not
// upload twice.
func (d *Document) OnChange(l dom.Landmark, h dom.ChangeHandler) error {
	return d.listen(l, "change", func(el, _ js.Value) {
		list := el.Get("files")
		go func() {
			files, err := readFiles(list)
			if err != nil {
				d.logger.Warn("file read failed", zap.String("landmark", string(l)), zap.Error(err))
				return
			}
			h(d.ctx, files)
		}()
	})
}

func (d *Document) OnClick(l dom.Landmark, h dom.ClickHandler) error {
	return d.listen(l, "click", func(el, _ js.Value) {
		go h(d.ctx, element{el})
	})
}

func (d *Document) OnSelect(l dom.Landmark, h dom.SelectHandler) error {
	return d.listen(l, "change", func(el, _ js.Value) {
		value := el.Get("value").String()
		go h(d.ctx, value)
	})
}

func (d *Document) listen(l dom.Landmark, event string, fn func(el, event js.Value)) error {
	els := d.elements(l)
	if len(els) == 0 {
		return fmt.Errorf("%w: %s", dom.ErrLandmarkMissing, l)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, el := range els {
		target := el
		cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
			ev := js.Undefined()
			if len(args) > 0 {
				ev = args[0]
			}
			fn(target, ev)
			return nil
		})
		target.Call("addEventListener", event, cb)
		d.funcs = append(d.funcs, cb)
	}
	d.logger.Debug("listener attached", zap.String("landmark", string(l)), zap.String("event", event), zap.Int("elements", len(els)))
	return nil
}

type element struct{ v js.Value }

func (e element) Attr(name string) string {
	return attrOf(e.v, name)
}

// formFields reads the form's named string entries in document order.
func formFields(form js.Value) []dom.Field {
	data := js.Global().Get("FormData").New(form)
	entries := js.Global().Get("Array").Call("from", data.Call("entries"))
	fields := make([]dom.Field, 0, entries.Length())
	for i := 0; i < entries.Length(); i++ {
		pair := entries.Index(i)
		value := pair.Index(1)
		if value.Type() != js.TypeString {
			continue
		}
		fields = append(fields, dom.Field{Name: pair.Index(0).String(), Value: value.String()})
	}
	return fields
}

// readFiles copies the selected files into memory. It blocks on promises and
// must not run on a callback goroutine.
func readFiles(list js.Value) ([]dom.File, error) {
	if !truthy(list) {
		return nil, nil
	}
	files := make([]dom.File, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		file := list.Index(i)
		buf, err := Await(file.Call("arrayBuffer"))
		if err != nil {
			return nil, err
		}
		view := js.Global().Get("Uint8Array").New(buf)
		data := make([]byte, view.Length())
		js.CopyBytesToGo(data, view)
		files = append(files, dom.File{
			Name:        file.Get("name").String(),
			ContentType: file.Get("type").String(),
			Body:        bytes.NewReader(data),
		})
	}
	return files, nil
}

func attrOf(v js.Value, name string) string {
	attr := v.Call("getAttribute", name)
	if attr.Type() != js.TypeString {
		return ""
	}
	return attr.String()
}

func truthy(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}
