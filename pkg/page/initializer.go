package page

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/dom"
	"github.com/goliatone/go-verisure/pkg/engine"
	"github.com/goliatone/go-verisure/pkg/role"
	"github.com/goliatone/go-verisure/pkg/verify"
	"github.com/goliatone/go-verisure/pkg/wallet"
)

const (
	// DefaultRedirectDelay is how long login and register wait before
	// following the server's redirect.
	DefaultRedirectDelay = time.Second

	// CertificateIDPrefix precedes the issued id in the info banner.
	CertificateIDPrefix = "Use this Certificate ID for verification: "

	// VerifyByIDMode is the verifyMode value that shows the id form.
	VerifyByIDMode = "verifyCert"
)

// ErrAlreadyInitialized is returned when Run is called a second time.
var ErrAlreadyInitialized = errors.New("page: already initialized")

// Backend is the API surface a page needs. *api.Client satisfies it.
type Backend interface {
	engine.Poster
	role.Setter
}

// Option configures an Initializer.
type Option func(*Initializer)

// WithBridge injects the wallet bridge. Nil means none is installed.
func WithBridge(bridge wallet.Bridge) Option {
	return func(i *Initializer) {
		i.resolveBridge = func() wallet.Bridge { return bridge }
	}
}

// WithBridgeResolver looks the wallet bridge up on every connect attempt.
func WithBridgeResolver(resolve func() wallet.Bridge) Option {
	return func(i *Initializer) {
		if resolve != nil {
			i.resolveBridge = resolve
		}
	}
}

// WithRedirectDelay sets the delay before post-login navigation. Zero
// navigates immediately on the handler's goroutine.
func WithRedirectDelay(d time.Duration) Option {
	return func(i *Initializer) {
		if d >= 0 {
			i.redirectDelay = d
		}
	}
}

// WithSanitizer filters content fragments written to the content region.
func WithSanitizer(s banner.Sanitizer) Option {
	return func(i *Initializer) {
		i.sanitizer = s
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Initializer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Initializer wires one document. It runs once.
type Initializer struct {
	backend       Backend
	resolveBridge func() wallet.Bridge
	sanitizer     banner.Sanitizer
	redirectDelay time.Duration
	logger        *zap.Logger

	once    sync.Once
	board   *banner.Board
	pending sync.WaitGroup
}

// New constructs an Initializer.
func New(backend Backend, options ...Option) (*Initializer, error) {
	if backend == nil {
		return nil, errors.New("page: backend is required")
	}
	i := &Initializer{
		backend:       backend,
		redirectDelay: DefaultRedirectDelay,
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i, nil
}

// Board returns the banner board created by Run, nil before Run.
func (i *Initializer) Board() *banner.Board {
	return i.board
}

// Wait blocks until scheduled redirects have fired or been abandoned.
func (i *Initializer) Wait() {
	i.pending.Wait()
}

// Run wires the landmarks of kind that doc contains and returns them in
// wiring order. Absent landmarks are skipped without error.
func (i *Initializer) Run(ctx context.Context, doc dom.Document, kind Kind) ([]dom.Landmark, error) {
	if doc == nil {
		return nil, errors.New("page: document is required")
	}
	var (
		wired []dom.Landmark
		err   error
		first bool
	)
	i.once.Do(func() {
		first = true
		wired, err = i.run(ctx, doc, kind)
	})
	if !first {
		return nil, ErrAlreadyInitialized
	}
	return wired, err
}

func (i *Initializer) run(ctx context.Context, doc dom.Document, kind Kind) ([]dom.Landmark, error) {
	logger := i.logger.With(zap.Stringer("page", kind))
	i.board = banner.New(
		banner.WithSurface(doc),
		banner.WithSanitizer(i.sanitizer),
		banner.WithLogger(logger),
	)

	eng, err := engine.New(i.backend, i.board, engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var wired []dom.Landmark
	for _, l := range kind.Landmarks() {
		ok, err := i.wire(ctx, doc, eng, l, logger)
		if err != nil {
			return wired, err
		}
		if ok {
			wired = append(wired, l)
		}
	}
	logger.Debug("page initialized", zap.Int("wired", len(wired)))
	return wired, nil
}

func (i *Initializer) wire(ctx context.Context, doc dom.Document, eng *engine.Engine, l dom.Landmark, logger *zap.Logger) (bool, error) {
	switch l {
	case dom.RoleCard:
		sel, err := role.New(i.backend, doc, role.WithLogger(logger))
		if err != nil {
			return false, err
		}
		return sel.Bind(doc)

	case dom.LoginForm:
		return eng.BindForm(doc, engine.FormDescriptor{
			Landmark:  l,
			Endpoint:  api.EndpointLogin,
			OnSuccess: i.redirect(ctx, doc),
		})

	case dom.RegisterForm:
		return eng.BindForm(doc, engine.FormDescriptor{
			Landmark:  l,
			Endpoint:  api.EndpointRegister,
			OnSuccess: i.redirect(ctx, doc),
		})

	case dom.CertForm:
		return eng.BindForm(doc, engine.FormDescriptor{
			Landmark: l,
			Endpoint: api.EndpointGenerateCertificate,
			OnSuccess: func(_ context.Context, resp api.Response) {
				i.board.Show(banner.Info, CertificateIDPrefix+resp.CertificateID)
				doc.Reset(dom.CertForm)
			},
		})

	case dom.ViewCertForm:
		return eng.BindForm(doc, engine.FormDescriptor{
			Landmark:  l,
			Endpoint:  api.EndpointViewCertificate,
			OnSuccess: i.showContent,
		})

	case dom.VerifyCertForm:
		return eng.BindForm(doc, engine.FormDescriptor{
			Landmark:  l,
			Endpoint:  api.EndpointVerifyCertificateID,
			OnSuccess: i.showContent,
		})

	case dom.PDFFile:
		return eng.BindFile(doc, engine.FileDescriptor{
			Landmark: l,
			Endpoint: api.EndpointVerifyPDF,
			OnSuccess: func(_ context.Context, resp api.Response) {
				verify.Render(i.board, resp)
			},
		})

	case dom.VerifyMode:
		return i.bindToggle(doc)

	case dom.ConnectWallet:
		conn, err := wallet.New(doc, wallet.WithBridgeResolver(i.resolveBridge), wallet.WithLogger(logger))
		if err != nil {
			return false, err
		}
		return conn.Bind(doc)
	}
	return false, nil
}

func (i *Initializer) showContent(_ context.Context, resp api.Response) {
	if resp.PDFHTML != "" {
		i.board.SetContent(resp.PDFHTML)
	}
}

// redirect follows resp.Redirect after the configured delay. The page
// context abandons a pending redirect.
func (i *Initializer) redirect(page context.Context, nav dom.Navigator) engine.SuccessFunc {
	return func(_ context.Context, resp api.Response) {
		target := resp.Redirect
		if target == "" {
			return
		}
		if i.redirectDelay == 0 {
			nav.Navigate(target)
			return
		}
		i.pending.Add(1)
		go func() {
			defer i.pending.Done()
			timer := time.NewTimer(i.redirectDelay)
			defer timer.Stop()
			select {
			case <-timer.C:
				nav.Navigate(target)
			case <-page.Done():
				i.logger.Debug("redirect abandoned", zap.String("target", target))
			}
		}()
	}
}

// bindToggle switches the verifier page between the id form and the upload
// section, clearing banners and content on every switch.
func (i *Initializer) bindToggle(doc dom.Document) (bool, error) {
	if !doc.Has(dom.VerifyMode) || !doc.Has(dom.VerifyCertForm) || !doc.Has(dom.UploadSection) {
		return false, nil
	}
	err := doc.OnSelect(dom.VerifyMode, func(_ context.Context, value string) {
		byID := value == VerifyByIDMode
		doc.SetVisible(dom.VerifyCertForm, byID)
		doc.SetVisible(dom.UploadSection, !byID)
		i.board.Clear()
		i.board.ClearContent()
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
