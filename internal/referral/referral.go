// Package referral checks and normalizes the marketing referral object carried by
// click-to-chat inbound messages.
package referral

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DefaultSourceType is stored when the referral does not name its source.
const DefaultSourceType = "unknown"

const schemaURL = "referral.schema.json"

//go:embed referral.schema.json
var schemaJSON []byte

// ErrInvalid wraps every shape error returned by Parse.
var ErrInvalid = errors.New("invalid referral")

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Referral is the normalized view of a referral payload. Raw keeps the payload
// byte for byte as received.
type Referral struct {
	SourceType string
	SourceID   string
	CtwaClid   string
	Headline   string
	Body       string
	Raw        json.RawMessage
}

// Parse validates raw and extracts the conventional keys. ok is false when the
// event carries no referral; absent, null and {} all count as absent. Numbers
// are read as json.Number so large ids keep every digit.
func Parse(raw json.RawMessage) (ref Referral, ok bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Referral{}, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Referral{}, false, fmt.Errorf("%w: must be a JSON object", ErrInvalid)
	}
	if len(fields) == 0 {
		return Referral{}, false, nil
	}

	schema, err := compileSchema()
	if err != nil {
		return Referral{}, false, fmt.Errorf("compile referral schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(trimmed))
	if err != nil {
		return Referral{}, false, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(inst); err != nil {
		return Referral{}, false, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	ref = Referral{
		SourceType: stringValue(fields["source_type"]),
		SourceID:   stringValue(fields["source_id"]),
		CtwaClid:   stringValue(fields["ctwa_clid"]),
		Headline:   stringValue(fields["headline"]),
		Body:       stringValue(fields["body"]),
		Raw:        json.RawMessage(slices.Clone(trimmed)),
	}
	if strings.TrimSpace(ref.SourceType) == "" {
		ref.SourceType = DefaultSourceType
	}
	return ref, true, nil
}

func stringValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}
