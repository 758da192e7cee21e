package dom

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type attrs map[string]string

func (a attrs) Attr(name string) string {
	return a[name]
}

type node struct {
	text     string
	html     string
	visible  bool
	resets   int
	elements []attrs

	submit []SubmitHandler
	change []ChangeHandler
	click  []ClickHandler
	sel    []SelectHandler
}

// Memory is an in-process Document. Event helpers (Submit, Choose, Click,
// Select) invoke the attached handlers synchronously on the caller's goroutine;
// callers that want concurrent pipelines start their own goroutines.
type Memory struct {
	mu        sync.Mutex
	nodes     map[Landmark]*node
	location  string
	navigated []string
	alerts    []string
}

// Ensure Memory satisfies the Document contract.
var _ Document = (*Memory)(nil)

// NewMemory builds a document containing the given landmarks. Role cards are
// not created here; add them with AddRoleCard.
func NewMemory(landmarks ...Landmark) *Memory {
	m := &Memory{nodes: make(map[Landmark]*node, len(landmarks))}
	for _, l := range landmarks {
		if l == RoleCard {
			continue
		}
		m.nodes[l] = &node{elements: []attrs{{}}}
	}
	return m
}

// AddRoleCard appends a role card carrying the given role token.
func (m *Memory) AddRoleCard(role string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[RoleCard]
	if !ok {
		n = &node{}
		m.nodes[RoleCard] = n
	}
	n.elements = append(n.elements, attrs{RoleAttr: role})
}

// Has reports whether the landmark exists.
func (m *Memory) Has(l Landmark) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[l]
	return ok && len(n.elements) > 0
}

// Landmarks lists the landmarks that carry at least one handler, sorted.
func (m *Memory) Landmarks() []Landmark {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Landmark
	for l, n := range m.nodes {
		if len(n.submit)+len(n.change)+len(n.click)+len(n.sel) > 0 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *Memory) OnSubmit(l Landmark, h SubmitHandler) error {
	return m.attach(l, func(n *node) { n.submit = append(n.submit, h) })
}

func (m *Memory) OnChange(l Landmark, h ChangeHandler) error {
	return m.attach(l, func(n *node) { n.change = append(n.change, h) })
}

func (m *Memory) OnClick(l Landmark, h ClickHandler) error {
	return m.attach(l, func(n *node) { n.click = append(n.click, h) })
}

func (m *Memory) OnSelect(l Landmark, h SelectHandler) error {
	return m.attach(l, func(n *node) { n.sel = append(n.sel, h) })
}

func (m *Memory) attach(l Landmark, fn func(*node)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[l]
	if !ok || len(n.elements) == 0 {
		return fmt.Errorf("%w: %s", ErrLandmarkMissing, l)
	}
	fn(n)
	return nil
}

// HandlerCount reports how many handlers of any kind are attached to l.
func (m *Memory) HandlerCount(l Landmark) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[l]
	if !ok {
		return 0
	}
	return len(n.submit) + len(n.change) + len(n.click) + len(n.sel)
}

// Submit fires the submit event of a form landmark.
func (m *Memory) Submit(ctx context.Context, l Landmark, fields ...Field) error {
	m.mu.Lock()
	n, ok := m.nodes[l]
	var handlers []SubmitHandler
	if ok {
		handlers = append(handlers, n.submit...)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrLandmarkMissing, l)
	}
	for _, h := range handlers {
		h(ctx, append([]Field(nil), fields...))
	}
	return nil
}

// Choose fires the change event of a file input landmark.
func (m *Memory) Choose(ctx context.Context, l Landmark, files ...File) error {
	m.mu.Lock()
	n, ok := m.nodes[l]
	var handlers []ChangeHandler
	if ok {
		handlers = append(handlers, n.change...)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrLandmarkMissing, l)
	}
	for _, h := range handlers {
		h(ctx, append([]File(nil), files...))
	}
	return nil
}

// Click fires the click event of the index-th element matching l.
func (m *Memory) Click(ctx context.Context, l Landmark, index int) error {
	m.mu.Lock()
	n, ok := m.nodes[l]
	if !ok || index < 0 || index >= len(n.elements) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s[%d]", ErrLandmarkMissing, l, index)
	}
	el := n.elements[index]
	handlers := append([]ClickHandler(nil), n.click...)
	m.mu.Unlock()

	for _, h := range handlers {
		h(ctx, el)
	}
	return nil
}

// Select fires the change event of a select landmark with the given value.
func (m *Memory) Select(ctx context.Context, l Landmark, value string) error {
	m.mu.Lock()
	n, ok := m.nodes[l]
	var handlers []SelectHandler
	if ok {
		handlers = append(handlers, n.sel...)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrLandmarkMissing, l)
	}
	for _, h := range handlers {
		h(ctx, value)
	}
	return nil
}

// Elements returns the attributes of every element matching l.
func (m *Memory) Elements(l Landmark) []Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[l]
	if !ok {
		return nil
	}
	out := make([]Element, 0, len(n.elements))
	for _, el := range n.elements {
		out = append(out, el)
	}
	return out
}

func (m *Memory) SetText(l Landmark, text string) {
	m.mutate(l, func(n *node) { n.text = text })
}

func (m *Memory) SetHTML(l Landmark, html string) {
	m.mutate(l, func(n *node) { n.html = html })
}

func (m *Memory) SetVisible(l Landmark, visible bool) {
	m.mutate(l, func(n *node) { n.visible = visible })
}

func (m *Memory) Reset(l Landmark) {
	m.mutate(l, func(n *node) { n.resets++ })
}

// mutate ignores writes to absent landmarks, like a getElementById miss.
func (m *Memory) mutate(l Landmark, fn func(*node)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[l]; ok {
		fn(n)
	}
}

func (m *Memory) Navigate(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = url
	m.navigated = append(m.navigated, url)
}

func (m *Memory) Alert(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, message)
}

// Text returns the text content of l.
func (m *Memory) Text(l Landmark) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[l]; ok {
		return n.text
	}
	return ""
}

// HTML returns the markup written into l.
func (m *Memory) HTML(l Landmark) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[l]; ok {
		return n.html
	}
	return ""
}

// Visible reports whether l is displayed.
func (m *Memory) Visible(l Landmark) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[l]; ok {
		return n.visible
	}
	return false
}

// Resets reports how many times the form l was reset.
func (m *Memory) Resets(l Landmark) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[l]; ok {
		return n.resets
	}
	return 0
}

// Location returns the last navigation target, or "" when none happened.
func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// Navigations returns every navigation target in order.
func (m *Memory) Navigations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.navigated...)
}

// Alerts returns every alert raised so far.
func (m *Memory) Alerts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.alerts...)
}
