package apiv1

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultSpecFile is where the API document lives relative to the working directory.
const DefaultSpecFile = "public/docs/v1/openapi.yml"

// LoadSpec reads and validates the OpenAPI document at path.
func LoadSpec(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// OpenAPIPath converts a fiber route path to OpenAPI template syntax.
func OpenAPIPath(fiberPath string) string {
	segments := strings.Split(fiberPath, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
