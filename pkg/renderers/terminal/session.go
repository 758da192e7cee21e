package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/dom"
	"github.com/goliatone/go-verisure/pkg/page"
	"github.com/goliatone/go-verisure/pkg/render"
	"github.com/goliatone/go-verisure/pkg/wallet"
)

// Session walks the pages of the certificate app in a terminal. Each page is
// an in-memory document wired by the same initializer the browser bundle
// uses; prompts stand in for clicks and form submissions.
type Session struct {
	backend   page.Backend
	contract  *contract.Contract
	driver    PromptDriver
	out       io.Writer
	styles    *Styles
	bridge    wallet.Bridge
	sanitizer banner.Sanitizer
	open      func(path string) (io.ReadCloser, error)
	logger    *zap.Logger

	redirectDelay time.Duration
}

// NewSession constructs a Session posting through backend.
func NewSession(backend page.Backend, options ...Option) (*Session, error) {
	if backend == nil {
		return nil, errors.New("terminal: backend is required")
	}
	s := &Session{
		backend: backend,
		out:     os.Stdout,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	if s.contract == nil {
		c, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("terminal: load contract: %w", err)
		}
		s.contract = c
	}
	if s.styles == nil {
		styles := DefaultStyles(s.out)
		s.styles = &styles
	}
	return s, nil
}

// Run starts on kind and follows navigation until the visitor quits, the
// prompt is aborted, or the page moves to a route with no terminal view.
func (s *Session) Run(ctx context.Context, kind page.Kind) error {
	if kind == page.KindProbe {
		return errors.New("terminal: a session starts on a concrete page kind")
	}
	for {
		next, err := s.runPage(ctx, kind)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if next == page.KindProbe {
			return nil
		}
		kind = next
	}
}

// action is one menu entry. run reports the route to move to, if any.
type action struct {
	label string
	run   func(ctx context.Context) (route string, err error)
}

type view struct {
	shell  render.Shell
	doc    *dom.Memory
	board  *banner.Board
	alerts int
	wallet string
}

func (s *Session) runPage(ctx context.Context, kind page.Kind) (page.Kind, error) {
	shell, err := render.BuildShell(kind, s.contract)
	if err != nil {
		return page.KindProbe, err
	}
	doc := documentFor(shell)

	// Redirects still pending when the visitor leaves the page are abandoned.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pi, err := page.New(s.backend,
		page.WithRedirectDelay(s.redirectDelay),
		page.WithBridge(s.bridge),
		page.WithSanitizer(s.sanitizer),
		page.WithLogger(s.logger),
	)
	if err != nil {
		return page.KindProbe, err
	}
	wired, err := pi.Run(ctx, doc, kind)
	if err != nil {
		return page.KindProbe, fmt.Errorf("terminal: wire %s: %w", kind, err)
	}
	s.logger.Debug("page wired", zap.Stringer("kind", kind), zap.Int("landmarks", len(wired)))

	v := &view{shell: shell, doc: doc, board: pi.Board(), wallet: doc.Text(dom.WalletStatus)}
	fmt.Fprintln(s.out, s.styles.Title.Render(shell.Title))

	for {
		if err := ctx.Err(); err != nil {
			return page.KindProbe, err
		}
		actions := s.actions(v)
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.label
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: shell.Title, Options: labels})
		if err != nil {
			return page.KindProbe, err
		}
		if idx < 0 || idx >= len(actions) {
			return page.KindProbe, fmt.Errorf("terminal: action %d out of range", idx)
		}

		navigations := len(doc.Navigations())
		route, err := actions[idx].run(ctx)
		if err != nil {
			return page.KindProbe, err
		}
		pi.Wait()
		s.report(v)

		if len(doc.Navigations()) > navigations {
			route = doc.Location()
		}
		if route == "" {
			continue
		}
		next, ok := page.KindForRoute(routePath(route))
		if !ok {
			fmt.Fprintln(s.out, s.styles.Label.Render("Left for "+route))
			return page.KindProbe, nil
		}
		return next, nil
	}
}

// documentFor builds an in-memory document carrying the shell's landmarks in
// their initial state.
func documentFor(shell render.Shell) *dom.Memory {
	var landmarks []dom.Landmark
	for _, r := range shell.Banners {
		landmarks = append(landmarks, dom.Landmark(r.ID))
	}
	if shell.Content != "" {
		landmarks = append(landmarks, dom.Landmark(shell.Content))
	}
	for _, f := range shell.Forms {
		landmarks = append(landmarks, dom.Landmark(f.ID))
	}
	if shell.Toggle != nil {
		landmarks = append(landmarks, dom.Landmark(shell.Toggle.ID))
	}
	if shell.Upload != nil {
		landmarks = append(landmarks, dom.Landmark(shell.Upload.Section), dom.Landmark(shell.Upload.Input))
	}
	if shell.Wallet != nil {
		landmarks = append(landmarks, dom.Landmark(shell.Wallet.Button), dom.Landmark(shell.Wallet.Status))
	}

	doc := dom.NewMemory(landmarks...)
	for _, r := range shell.Roles {
		doc.AddRoleCard(r.Token)
	}
	for _, f := range shell.Forms {
		doc.SetVisible(dom.Landmark(f.ID), true)
	}
	if shell.Upload != nil {
		doc.SetVisible(dom.Landmark(shell.Upload.Section), !shell.Upload.Hidden)
	}
	if shell.Wallet != nil {
		doc.SetText(dom.Landmark(shell.Wallet.Status), shell.Wallet.Label)
	}
	return doc
}

func (s *Session) actions(v *view) []action {
	var out []action
	for i, r := range v.shell.Roles {
		index := i
		out = append(out, action{
			label: "Continue as " + r.Label,
			run: func(ctx context.Context) (string, error) {
				return "", v.doc.Click(ctx, dom.RoleCard, index)
			},
		})
	}
	for _, f := range v.shell.Forms {
		form := f
		if !v.doc.Visible(dom.Landmark(form.ID)) {
			continue
		}
		label := form.Submit
		if form.Title != "" && form.Title != form.Submit {
			label = form.Title
		}
		out = append(out, action{
			label: label,
			run: func(ctx context.Context) (string, error) {
				fields, err := s.fill(ctx, form)
				if err != nil {
					return "", err
				}
				return "", v.doc.Submit(ctx, dom.Landmark(form.ID), fields...)
			},
		})
	}
	if t := v.shell.Toggle; t != nil {
		out = append(out, action{
			label: "Switch verification mode",
			run: func(ctx context.Context) (string, error) {
				labels := make([]string, len(t.Options))
				for i, c := range t.Options {
					labels[i] = c.Label
				}
				idx, err := s.driver.Select(ctx, SelectConfig{Message: "Verification mode", Options: labels})
				if err != nil {
					return "", err
				}
				if idx < 0 || idx >= len(t.Options) {
					return "", fmt.Errorf("terminal: mode %d out of range", idx)
				}
				return "", v.doc.Select(ctx, dom.Landmark(t.ID), t.Options[idx].Value)
			},
		})
	}
	if up := v.shell.Upload; up != nil && v.doc.Visible(dom.Landmark(up.Section)) {
		out = append(out, action{
			label: up.Label,
			run: func(ctx context.Context) (string, error) {
				return "", s.upload(ctx, v.doc, up)
			},
		})
	}
	if w := v.shell.Wallet; w != nil {
		out = append(out, action{
			label: "Connect wallet",
			run: func(ctx context.Context) (string, error) {
				return "", v.doc.Click(ctx, dom.Landmark(w.Button), 0)
			},
		})
	}
	for _, l := range v.shell.Links {
		link := l
		out = append(out, action{
			label: link.Label,
			run: func(context.Context) (string, error) {
				return link.Href, nil
			},
		})
	}
	out = append(out, action{
		label: "Quit",
		run: func(ctx context.Context) (string, error) {
			leave, err := s.driver.Confirm(ctx, "Leave the session?", true)
			if err != nil {
				return "", err
			}
			if !leave {
				return "", nil
			}
			return "", ErrAborted
		},
	})
	return out
}

func (s *Session) fill(ctx context.Context, form render.Form) ([]dom.Field, error) {
	fields := make([]dom.Field, 0, len(form.Fields))
	for _, f := range form.Fields {
		cfg := InputConfig{Message: f.Label, Default: f.Value}
		if f.Required {
			cfg.Validator = required(f.Label)
		}

		var (
			value string
			err   error
		)
		switch f.Input {
		case "password":
			cfg.Default = ""
			value, err = s.driver.Password(ctx, cfg)
		case "select":
			var idx int
			idx, err = s.driver.Select(ctx, SelectConfig{Message: f.Label, Options: f.Options})
			if err == nil {
				if idx < 0 || idx >= len(f.Options) {
					return nil, fmt.Errorf("terminal: option %d out of range for %s", idx, f.Name)
				}
				value = f.Options[idx]
			}
		default:
			value, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}
		fields = append(fields, dom.Field{Name: f.Name, Value: value})
	}
	return fields, nil
}

func (s *Session) upload(ctx context.Context, doc *dom.Memory, up *render.Upload) error {
	path, err := s.driver.Input(ctx, InputConfig{Message: "Path to certificate PDF"})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return doc.Choose(ctx, dom.Landmark(up.Input))
	}
	file, err := s.open(path)
	if err != nil {
		fmt.Fprintln(s.out, s.styles.Banners[banner.Error].Render(err.Error()))
		return nil
	}
	defer file.Close()

	contentType := up.Accept
	if contentType == "" {
		contentType = "application/pdf"
	}
	return doc.Choose(ctx, dom.Landmark(up.Input), dom.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Body:        file,
	})
}

// report prints the board and anything that changed since the last action.
func (s *Session) report(v *view) {
	snap := v.board.Snapshot()
	if snap.Visible != banner.None {
		fmt.Fprintln(s.out, s.styles.Banners[snap.Visible].Render(snap.Text))
	}
	if snap.Content != "" {
		text, err := FragmentText(snap.Content)
		if err != nil {
			s.logger.Debug("content not printable", zap.Error(err))
		} else if text != "" {
			fmt.Fprintln(s.out, s.styles.Content.Render(text))
		}
	}

	alerts := v.doc.Alerts()
	for _, a := range alerts[v.alerts:] {
		fmt.Fprintln(s.out, s.styles.Alert.Render(a))
	}
	v.alerts = len(alerts)

	if v.shell.Wallet != nil {
		if label := v.doc.Text(dom.WalletStatus); label != v.wallet {
			v.wallet = label
			fmt.Fprintln(s.out, s.styles.Label.Render("Wallet: ")+label)
		}
	}
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func routePath(route string) string {
	u, err := url.Parse(route)
	if err != nil || u.Path == "" {
		return route
	}
	return u.Path
}
