package sink

import (
	"encoding/json"

	"github.com/matzehuels/rothko/pkg/core/compose"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// RenderJSON encodes c as indented JSON.
func RenderJSON(c *compose.Composition) ([]byte, error) {
	if c == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no composition to encode")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode composition")
	}
	return append(data, '\n'), nil
}

// ParseJSON decodes a document produced by RenderJSON.
func ParseJSON(data []byte) (*compose.Composition, error) {
	var c compose.Composition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode composition")
	}
	return &c, nil
}
