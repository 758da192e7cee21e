package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The client's cookie jar is what
// relays the session between calls, so callers supplying their own should
// give it one.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		c.headers.Set(name, value)
	}
}

// Client talks to the certificate API.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers http.Header
	logger  *zap.Logger
}

// NewClient builds a client rooted at baseURL. Endpoints are resolved
// relative to it.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("api: base url is required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", trimmed)
	}

	c := &Client{
		base:    base,
		headers: make(http.Header),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("api: cookie jar: %w", err)
		}
		c.http = &http.Client{Jar: jar}
	}
	return c, nil
}

// BaseURL returns the root the client resolves endpoints against.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve returns the absolute URL of endpoint.
func (c *Client) Resolve(endpoint string) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("api: parse endpoint %q: %w", endpoint, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// PostJSON sends payload as a JSON body.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("api: encode payload for %s: %w", endpoint, err)
	}
	var resp Response
	err = c.do(ctx, http.MethodPost, endpoint, "application/json", bytes.NewReader(body), &resp)
	return resp, err
}

// PostFile sends a single file as a multipart body under field. The content
// type, including the boundary, is produced by the multipart writer.
func (c *Client) PostFile(ctx context.Context, endpoint, field, filename string, content io.Reader) (Response, error) {
	if content == nil {
		return Response{}, fmt.Errorf("api: file content for %s is nil", endpoint)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return Response{}, fmt.Errorf("api: create multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return Response{}, &TransportError{Op: "read file", Endpoint: endpoint, Err: err}
	}
	if err := writer.Close(); err != nil {
		return Response{}, fmt.Errorf("api: close multipart body: %w", err)
	}

	var resp Response
	err = c.do(ctx, http.MethodPost, endpoint, writer.FormDataContentType(), &buf, &resp)
	return resp, err
}

// SetRole stores the visitor's role in the server session.
func (c *Client) SetRole(ctx context.Context, role string) (Response, error) {
	return c.PostJSON(ctx, EndpointSetRole, map[string]string{"role": role})
}

// BlockchainStatus reports whether the API can reach its chain node.
func (c *Client) BlockchainStatus(ctx context.Context) (Status, error) {
	var status Status
	err := c.do(ctx, http.MethodGet, EndpointBlockchainStatus, "", nil, &status)
	return status, err
}

// Certificates lists every certificate recorded on chain.
func (c *Client) Certificates(ctx context.Context) (CertificateList, error) {
	var list CertificateList
	err := c.do(ctx, http.MethodGet, EndpointCertificates, "", nil, &list)
	return list, err
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out any) error {
	target, err := c.Resolve(endpoint)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("api: build request %s %s: %w", method, endpoint, err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request rejected", zap.String("endpoint", endpoint), zap.Error(err))
		return &TransportError{Op: strings.ToLower(method), Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{Op: "read", Endpoint: endpoint, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("unparsable response",
			zap.String("endpoint", endpoint),
			zap.Int("status", res.StatusCode),
			zap.Error(err),
		)
		return &TransportError{
			Op:       "decode",
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected response (status %d): %w", res.StatusCode, err),
		}
	}

	c.logger.Debug("request settled", zap.String("endpoint", endpoint), zap.Int("status", res.StatusCode))
	return nil
}
