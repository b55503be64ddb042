// Package apispec loads the embedded OpenAPI contract of the JSON endpoints,
// serves it, and validates responses against it.
package apispec

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

// ErrUnknownOperation is returned when the contract has no operation for a method and path.
var ErrUnknownOperation = errors.New("operation not in contract")

// Document is a loaded and validated OpenAPI contract.
type Document struct {
	doc *openapi3.T
	raw []byte
}

// Load parses and validates an OpenAPI 3 document.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return &Document{doc: doc, raw: raw}, nil
}

// Version returns info.version.
func (d *Document) Version() string {
	if d.doc.Info == nil {
		return ""
	}
	return d.doc.Info.Version
}

// HasOperation reports whether method and path are described.
func (d *Document) HasOperation(method, path string) bool {
	_, err := d.route(method, path)
	return err == nil
}

// ServeHTTP serves the raw YAML document.
func (d *Document) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(d.raw)
}

// Response is a captured HTTP response to check against the contract.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// ValidateResponse checks resp against the operation matching req.
func (d *Document) ValidateResponse(ctx context.Context, req *http.Request, resp Response) error {
	route, err := d.route(req.Method, req.URL.Path)
	if err != nil {
		return err
	}
	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request: req,
			Route:   route,
		},
		Status: resp.Status,
		Header: resp.Header,
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
			MultiError:            true,
		},
	}
	input.SetBodyBytes(resp.Body)
	return openapi3filter.ValidateResponse(ctx, input)
}

func (d *Document) route(method, path string) (*routers.Route, error) {
	item := d.doc.Paths.Find(path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	op := item.GetOperation(method)
	if op == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	return &routers.Route{
		Spec:      d.doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: op,
	}, nil
}
