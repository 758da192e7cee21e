package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// RPCError is a JSON-RPC error object. Code 4001 is a user rejection.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet: rpc error %d: %s", e.Code, e.Message)
}

// RPCBridge is a Bridge backed by a JSON-RPC endpoint, for running outside a
// browser against a node or signer that exposes eth_requestAccounts.
type RPCBridge struct {
	endpoint string
	client   *http.Client
	nextID   atomic.Int64

	mu       sync.Mutex
	selected string
}

// NewRPCBridge returns a bridge for endpoint.
func NewRPCBridge(endpoint string, client *http.Client) (*RPCBridge, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("wallet: rpc endpoint is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RPCBridge{endpoint: endpoint, client: client}, nil
}

// FromEndpoint returns an RPC bridge for endpoint, or a nil Bridge when the
// endpoint is empty so callers can pass the result straight to WithBridge.
func FromEndpoint(endpoint string, client *http.Client) Bridge {
	bridge, err := NewRPCBridge(endpoint, client)
	if err != nil {
		return nil
	}
	return bridge
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RequestAccounts calls eth_requestAccounts and remembers the first account
// as the selected one.
func (b *RPCBridge) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := b.call(ctx, "eth_requestAccounts", &accounts); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, errors.New("wallet: no accounts granted")
	}
	b.mu.Lock()
	b.selected = accounts[0]
	b.mu.Unlock()
	return accounts, nil
}

// SelectedAddress returns the account chosen by the last successful request.
func (b *RPCBridge) SelectedAddress() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

func (b *RPCBridge) call(ctx context.Context, method string, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  []any{},
		ID:      b.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("wallet: encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("wallet: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("wallet: %s: %w", method, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("wallet: read %s response: %w", method, err)
	}
	var envelope rpcResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("wallet: decode %s response (status %d): %w", method, res.StatusCode, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("wallet: decode %s result: %w", method, err)
	}
	return nil
}
