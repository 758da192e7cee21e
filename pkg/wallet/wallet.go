// Package wallet connects the page to an injected account bridge.
//
// Without a bridge the user is alerted and the status label says so. With
// one, the connector requests account authorization and shows the selected
// address. A refused or failed request is alerted and logged, but the status
// label keeps whatever it showed before the attempt.
package wallet

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/dom"
)

const (
	MissingAlert   = "MetaMask not installed!"
	MissingLabel   = "MetaMask not installed"
	FailedAlert    = "Connection failed."
	ConnectedLabel = "Connected: "
)

// ErrBridgeMissing is returned by Connect when no bridge was injected.
var ErrBridgeMissing = errors.New("wallet: bridge not installed")

// Bridge is an account provider in the style of an injected Ethereum provider.
type Bridge interface {
	// RequestAccounts asks the user to authorize account access
	// (eth_requestAccounts) and returns the granted accounts.
	RequestAccounts(ctx context.Context) ([]string, error)
	// SelectedAddress is the currently selected account, empty when none.
	SelectedAddress() string
}

// Option configures a Connector.
type Option func(*Connector)

// WithBridge injects the account bridge. A nil bridge means none is installed.
func WithBridge(bridge Bridge) Option {
	return func(c *Connector) {
		c.resolve = func() Bridge { return bridge }
	}
}

// WithBridgeResolver looks the bridge up on every attempt, so a provider
// injected after the page loaded is still found. A nil result means none is
// installed.
func WithBridgeResolver(resolve func() Bridge) Option {
	return func(c *Connector) {
		if resolve != nil {
			c.resolve = resolve
		}
	}
}

// WithLogger sets the logger used for failed attempts.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Connector drives the wallet status label.
type Connector struct {
	resolve  func() Bridge
	notifier dom.Notifier
	logger   *zap.Logger
}

// New constructs a Connector writing to notifier.
func New(notifier dom.Notifier, options ...Option) (*Connector, error) {
	if notifier == nil {
		return nil, errors.New("wallet: notifier is required")
	}
	c := &Connector{
		resolve:  func() Bridge { return nil },
		notifier: notifier,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Connect runs one connection attempt.
func (c *Connector) Connect(ctx context.Context) error {
	bridge := c.resolve()
	if bridge == nil {
		c.notifier.Alert(MissingAlert)
		c.notifier.SetText(dom.WalletStatus, MissingLabel)
		return ErrBridgeMissing
	}

	if _, err := bridge.RequestAccounts(ctx); err != nil {
		c.logger.Warn("wallet authorization failed", zap.Error(err))
		c.notifier.Alert(FailedAlert)
		return err
	}

	account := bridge.SelectedAddress()
	c.notifier.SetText(dom.WalletStatus, ConnectedLabel+account)
	c.logger.Info("wallet connected", zap.String("account", account))
	return nil
}

// Bind attaches Connect to the connect button. A page without the button is a
// no-op.
func (c *Connector) Bind(doc dom.Document) (bool, error) {
	if doc == nil || !doc.Has(dom.ConnectWallet) {
		return false, nil
	}
	err := doc.OnClick(dom.ConnectWallet, func(ctx context.Context, _ dom.Element) {
		_ = c.Connect(ctx)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
