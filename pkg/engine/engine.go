package engine

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/dom"
)

// Poster is the transport the engine posts through. *api.Client satisfies it.
type Poster interface {
	PostJSON(ctx context.Context, endpoint string, payload any) (api.Response, error)
	PostFile(ctx context.Context, endpoint, field, filename string, content io.Reader) (api.Response, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine runs form and file pipelines against a shared banner board.
type Engine struct {
	poster Poster
	board  *banner.Board
	logger *zap.Logger
}

// New constructs an Engine.
func New(poster Poster, board *banner.Board, options ...Option) (*Engine, error) {
	if poster == nil {
		return nil, errors.New("engine: poster is required")
	}
	if board == nil {
		return nil, errors.New("engine: banner board is required")
	}
	e := &Engine{
		poster: poster,
		board:  board,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// BindForm attaches one submit handler to the descriptor's form. A missing
// landmark is not an error: BindForm reports false and attaches nothing.
func (e *Engine) BindForm(doc dom.Document, d FormDescriptor) (bool, error) {
	if doc == nil || !doc.Has(d.Landmark) {
		return false, nil
	}
	err := doc.OnSubmit(d.Landmark, func(ctx context.Context, fields []dom.Field) {
		out := e.Submit(ctx, d, fields)
		if out.Succeeded() && d.OnSuccess != nil {
			d.OnSuccess(ctx, out.Response)
		}
	})
	if err != nil {
		return false, err
	}
	e.logger.Debug("form bound", zap.String("landmark", string(d.Landmark)), zap.String("endpoint", d.Endpoint))
	return true, nil
}

// BindFile attaches one change handler to the descriptor's file input. A
// missing landmark is not an error. The input is never cleared, so
// re-selecting the file just uploaded raises no change and no second upload.
func (e *Engine) BindFile(doc dom.Document, d FileDescriptor) (bool, error) {
	if doc == nil || !doc.Has(d.Landmark) {
		return false, nil
	}
	err := doc.OnChange(d.Landmark, func(ctx context.Context, files []dom.File) {
		out := e.Upload(ctx, d, files)
		if out.Succeeded() && d.OnSuccess != nil {
			d.OnSuccess(ctx, out.Response)
		}
	})
	if err != nil {
		return false, err
	}
	e.logger.Debug("file input bound", zap.String("landmark", string(d.Landmark)), zap.String("endpoint", d.Endpoint))
	return true, nil
}

// Submit posts the captured form values as JSON and writes the terminal
// banner. It does not run d.OnSuccess.
func (e *Engine) Submit(ctx context.Context, d FormDescriptor, fields []dom.Field) Outcome {
	payload := BuildPayload(fields)
	resp, err := e.poster.PostJSON(ctx, d.Endpoint, payload)
	return e.settle(d.Endpoint, resp, err, DefaultFailureMessage, TransportPrefix)
}

// Upload posts the first selected file as multipart and writes the terminal
// banner. An empty selection ends silently. It does not run d.OnSuccess.
func (e *Engine) Upload(ctx context.Context, d FileDescriptor, files []dom.File) Outcome {
	if len(files) == 0 || files[0].Body == nil {
		e.logger.Debug("upload skipped: no file selected", zap.String("landmark", string(d.Landmark)))
		return Outcome{Kind: OutcomeSilent}
	}
	file := files[0]
	resp, err := e.poster.PostFile(ctx, d.Endpoint, d.field(), file.Name, file.Body)
	return e.settle(d.Endpoint, resp, err, DefaultFileFailureMessage, FileTransportPrefix)
}

func (e *Engine) settle(endpoint string, resp api.Response, err error, failure, transportPrefix string) Outcome {
	if err != nil {
		msg := transportPrefix + api.Describe(err)
		e.board.Show(banner.Error, msg)
		e.logger.Warn("pipeline transport failure", zap.String("endpoint", endpoint), zap.Error(err))
		return Outcome{Kind: OutcomeTransportFailure, Message: msg, Err: err}
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = failure
		}
		e.board.Show(banner.Error, msg)
		e.logger.Info("pipeline rejected", zap.String("endpoint", endpoint), zap.String("error", msg))
		return Outcome{Kind: OutcomeValidationFailure, Response: resp, Message: msg}
	}

	msg := resp.Message
	if msg == "" {
		msg = DefaultSuccessMessage
	}
	e.board.Show(banner.Success, msg)
	return Outcome{Kind: OutcomeSuccess, Response: resp, Message: msg}
}

// BuildPayload flattens form values into a name/value mapping. A repeated
// name keeps its first position and takes the last value.
func BuildPayload(fields []dom.Field) api.Fields {
	var payload api.Fields
	for _, field := range fields {
		payload.Set(field.Name, field.Value)
	}
	return payload
}
