// Package role wires the landing page's role cards to the role-assignment
// endpoint.
//
// A successful assignment moves the page to the login route. Any other result,
// including a rejected request, is logged and otherwise ignored: the page
// shows no feedback for a failed role selection.
package role

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/dom"
)

// LoginRoute is where a successful role selection navigates to.
const LoginRoute = "/login"

// Setter assigns a role in the server session. *api.Client satisfies it.
type Setter interface {
	SetRole(ctx context.Context, role string) (api.Response, error)
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for the silent failure paths.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLoginRoute overrides the navigation target.
func WithLoginRoute(route string) Option {
	return func(s *Selector) {
		if route != "" {
			s.loginRoute = route
		}
	}
}

// Selector sends role choices and navigates on success.
type Selector struct {
	setter     Setter
	nav        dom.Navigator
	loginRoute string
	logger     *zap.Logger
}

// New constructs a Selector.
func New(setter Setter, nav dom.Navigator, options ...Option) (*Selector, error) {
	if setter == nil {
		return nil, errors.New("role: setter is required")
	}
	if nav == nil {
		return nil, errors.New("role: navigator is required")
	}
	s := &Selector{
		setter:     setter,
		nav:        nav,
		loginRoute: LoginRoute,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Select sends role and navigates to the login route on success. It reports
// whether navigation happened; failures produce no user feedback.
func (s *Selector) Select(ctx context.Context, role string) bool {
	resp, err := s.setter.SetRole(ctx, role)
	if err != nil {
		s.logger.Debug("role selection rejected", zap.String("role", role), zap.Error(err))
		return false
	}
	if !resp.Success {
		s.logger.Debug("role selection refused", zap.String("role", role), zap.String("error", resp.Error))
		return false
	}
	s.nav.Navigate(s.loginRoute)
	return true
}

// Bind attaches a click handler to every role card. Cards without a role
// token are ignored when clicked. A page without role cards is a no-op.
func (s *Selector) Bind(doc dom.Document) (bool, error) {
	if doc == nil || !doc.Has(dom.RoleCard) {
		return false, nil
	}
	err := doc.OnClick(dom.RoleCard, func(ctx context.Context, el dom.Element) {
		role := el.Attr(dom.RoleAttr)
		if role == "" {
			return
		}
		s.Select(ctx, role)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
