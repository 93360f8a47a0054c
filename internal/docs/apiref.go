package docs

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Endpoint is one operation from the OpenAPI document, flattened for the
// API reference page.
type Endpoint struct {
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
}

// APIReference is the rendered model of the anonymization API's OpenAPI
// document.
type APIReference struct {
	Title     string
	Version   string
	Endpoints []Endpoint
}

// LoadAPIReference loads and validates an OpenAPI document from a file path
// or URL and flattens it into the reference model.
func LoadAPIReference(ctx context.Context, source string) (*APIReference, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	var doc *openapi3.T
	var err error
	if u, parseErr := url.Parse(source); parseErr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading OpenAPI document %s: %w", source, err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document %s: %w", source, err)
	}

	ref := &APIReference{}
	if doc.Info != nil {
		ref.Title = doc.Info.Title
		ref.Version = doc.Info.Version
	}

	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			for method, op := range item.Operations() {
				ref.Endpoints = append(ref.Endpoints, Endpoint{
					Method:      strings.ToUpper(method),
					Path:        path,
					Summary:     op.Summary,
					Description: op.Description,
					Tags:        op.Tags,
				})
			}
		}
	}

	sort.Slice(ref.Endpoints, func(i, j int) bool {
		if ref.Endpoints[i].Path != ref.Endpoints[j].Path {
			return ref.Endpoints[i].Path < ref.Endpoints[j].Path
		}
		return ref.Endpoints[i].Method < ref.Endpoints[j].Method
	})

	return ref, nil
}
