package engine

import (
	"context"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/dom"
)

const (
	DefaultSuccessMessage     = "Operation successful!"
	DefaultFailureMessage     = "Operation failed!"
	DefaultFileFailureMessage = "File processing failed!"
	TransportPrefix           = "Error: "
	FileTransportPrefix       = "Error processing file: "
)

// OutcomeKind classifies how a pipeline ended.
type OutcomeKind int

const (
	// OutcomeSuccess means the API answered success:true.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeValidationFailure means the API answered with a falsy success.
	OutcomeValidationFailure
	// OutcomeTransportFailure means the request was rejected or the body was
	// not an API envelope.
	OutcomeTransportFailure
	// OutcomeSilent means the pipeline ended without any user feedback.
	OutcomeSilent
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailure:
		return "validation_failure"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeSilent:
		return "silent"
	}
	return "unknown"
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	Kind     OutcomeKind
	Response api.Response
	// Message is the banner text written, empty for silent outcomes.
	Message string
	Err     error
}

// Succeeded reports whether the continuation should run.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// SuccessFunc is an endpoint-specific continuation run after the success
// banner has been written.
type SuccessFunc func(ctx context.Context, resp api.Response)

// FormDescriptor binds a form landmark to an endpoint.
type FormDescriptor struct {
	Landmark  dom.Landmark
	Endpoint  string
	OnSuccess SuccessFunc
}

// FileDescriptor binds a file input landmark to an endpoint. Field defaults
// to api.UploadField.
type FileDescriptor struct {
	Landmark  dom.Landmark
	Endpoint  string
	Field     string
	OnSuccess SuccessFunc
}

func (d FileDescriptor) field() string {
	if d.Field == "" {
		return api.UploadField
	}
	return d.Field
}
