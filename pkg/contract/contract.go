// Package contract describes the certificate API as an OpenAPI document and
// derives, for each page landmark, the operation it posts to and the fields
// its form carries.
//
// The document is embedded; Default parses it once. Operations declare the
// landmark they back with the x-landmark extension and order their fields
// with x-order.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-verisure/pkg/dom"
)

//go:embed openapi.yaml
var document []byte

const (
	ExtLandmark = "x-landmark"
	ExtOrder    = "x-order"
	ExtSubmit   = "x-submit"
	ExtInput    = "x-input"
	ExtAccept   = "x-accept"
)

// FieldSpec describes one named form control.
type FieldSpec struct {
	Name     string
	Label    string
	Input    string
	Required bool
	Options  []string
	Accept   string
	Order    int
}

// Operation is one API call and the form that feeds it.
type Operation struct {
	ID       string
	Method   string
	Path     string
	Summary  string
	Landmark dom.Landmark
	Submit   string
	Upload   bool
	Fields   []FieldSpec
}

// Field returns the named field.
func (o Operation) Field(name string) (FieldSpec, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Contract indexes the operations of a parsed document.
type Contract struct {
	operations []Operation
	byLandmark map[dom.Landmark]int
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Document returns the embedded OpenAPI source.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Default returns the contract parsed from the embedded document.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Parse(context.Background(), document)
	})
	return defaultContract, defaultErr
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded document.
func MustDefault() *Contract {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse loads an OpenAPI 3 document and collects its operations.
func Parse(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	c := &Contract{byLandmark: make(map[dom.Landmark]int)}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		c.collect("GET", path, item.Get)
		c.collect("POST", path, item.Post)
	}
	sort.Slice(c.operations, func(i, j int) bool {
		return c.operations[i].Path < c.operations[j].Path
	})
	for i, op := range c.operations {
		if op.Landmark == "" {
			continue
		}
		if _, dup := c.byLandmark[op.Landmark]; dup {
			return nil, fmt.Errorf("contract: landmark %q declared twice", op.Landmark)
		}
		c.byLandmark[op.Landmark] = i
	}
	return c, nil
}

// Operations returns every operation ordered by path.
func (c *Contract) Operations() []Operation {
	return append([]Operation(nil), c.operations...)
}

// ForLandmark returns the operation backing a landmark.
func (c *Contract) ForLandmark(l dom.Landmark) (Operation, bool) {
	i, ok := c.byLandmark[l]
	if !ok {
		return Operation{}, false
	}
	return c.operations[i], true
}

// ForPath returns the operation registered for method and path.
func (c *Contract) ForPath(method, path string) (Operation, bool) {
	method = strings.ToUpper(method)
	for _, op := range c.operations {
		if op.Method == method && op.Path == path {
			return op, true
		}
	}
	return Operation{}, false
}

func (c *Contract) collect(method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op := Operation{
		ID:       id,
		Method:   method,
		Path:     path,
		Summary:  operation.Summary,
		Landmark: dom.Landmark(stringExtension(operation.Extensions, ExtLandmark)),
		Submit:   stringExtension(operation.Extensions, ExtSubmit),
	}
	if body := operation.RequestBody; body != nil && body.Value != nil {
		for _, mediaType := range []string{"application/json", "multipart/form-data"} {
			mt, ok := body.Value.Content[mediaType]
			if !ok || mt == nil {
				continue
			}
			op.Upload = mediaType == "multipart/form-data"
			op.Fields = fieldsFromSchema(mt.Schema)
			break
		}
	}
	c.operations = append(c.operations, op)
}

func fieldsFromSchema(ref *openapi3.SchemaRef) []FieldSpec {
	if ref == nil || ref.Value == nil {
		return nil
	}
	schema := ref.Value
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]FieldSpec, 0, len(schema.Properties))
	for name, prop := range schema.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		p := prop.Value
		field := FieldSpec{
			Name:     name,
			Label:    p.Title,
			Input:    inputType(p),
			Required: required[name],
			Accept:   stringExtension(p.Extensions, ExtAccept),
			Order:    intExtension(p.Extensions, ExtOrder),
		}
		if field.Label == "" {
			field.Label = name
		}
		for _, v := range p.Enum {
			if s, ok := v.(string); ok {
				field.Options = append(field.Options, s)
			}
		}
		fields = append(fields, field)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].Name < fields[j].Name
	})
	return fields
}

func inputType(s *openapi3.Schema) string {
	if v := stringExtension(s.Extensions, ExtInput); v != "" {
		return v
	}
	if len(s.Enum) > 0 {
		return "select"
	}
	switch s.Format {
	case "email":
		return "email"
	case "password":
		return "password"
	case "binary":
		return "file"
	}
	if s.Type != nil && (s.Type.Is("integer") || s.Type.Is("number")) {
		return "number"
	}
	return "text"
}

func stringExtension(ext map[string]any, key string) string {
	if v, ok := ext[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intExtension(ext map[string]any, key string) int {
	switch v := ext[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
