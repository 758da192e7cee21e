//go:build js && wasm

package jsdom

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/goliatone/go-verisure/pkg/wallet"
)

// EthereumBridge wraps the provider injected at window.ethereum.
type EthereumBridge struct {
	provider js.Value
}

var _ wallet.Bridge = (*EthereumBridge)(nil)

// InjectedBridge returns the page's injected provider, or nil when the page
// has none. It reads window.ethereum on every call, so it can serve as a
// wallet.WithBridgeResolver resolver.
func InjectedBridge() wallet.Bridge {
	provider := js.Global().Get("ethereum")
	if !truthy(provider) {
		return nil
	}
	return &EthereumBridge{provider: provider}
}

// RequestAccounts calls eth_requestAccounts and waits for the user's answer.
func (b *EthereumBridge) RequestAccounts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := js.Global().Get("Object").New()
	req.Set("method", "eth_requestAccounts")
	result, err := Await(b.provider.Call("request", req))
	if err != nil {
		var jsErr *JSError
		if errors.As(err, &jsErr) {
			return nil, &wallet.RPCError{Code: jsErr.Code, Message: jsErr.Message}
		}
		return nil, err
	}
	if result.Type() != js.TypeObject {
		return nil, nil
	}
	accounts := make([]string, 0, result.Length())
	for i := 0; i < result.Length(); i++ {
		accounts = append(accounts, result.Index(i).String())
	}
	return accounts, nil
}

// SelectedAddress reads the provider's current account.
func (b *EthereumBridge) SelectedAddress() string {
	addr := b.provider.Get("selectedAddress")
	if addr.Type() != js.TypeString {
		return ""
	}
	return addr.String()
}
