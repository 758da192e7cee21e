package terminal

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/contract"
	"github.com/goliatone/go-verisure/pkg/wallet"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where banners and content are printed.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithStyles overrides the print styles.
func WithStyles(styles Styles) Option {
	return func(s *Session) {
		s.styles = &styles
	}
}

// WithContract overrides the API contract forms are built from.
func WithContract(c *contract.Contract) Option {
	return func(s *Session) {
		if c != nil {
			s.contract = c
		}
	}
}

// WithBridge injects the wallet bridge offered on pages with a wallet widget.
func WithBridge(bridge wallet.Bridge) Option {
	return func(s *Session) {
		s.bridge = bridge
	}
}

// WithSanitizer filters content fragments before they are printed.
func WithSanitizer(sanitizer banner.Sanitizer) Option {
	return func(s *Session) {
		s.sanitizer = sanitizer
	}
}

// WithRedirectDelay sets the wait before following a post-login redirect.
// The session blocks on it before showing the next page. Default zero.
func WithRedirectDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.redirectDelay = d
		}
	}
}

// WithFileOpener replaces how upload paths are opened.
func WithFileOpener(open func(path string) (io.ReadCloser, error)) Option {
	return func(s *Session) {
		if open != nil {
			s.open = open
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
