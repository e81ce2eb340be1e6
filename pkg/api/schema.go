package api

import (
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// EventRequest is the wire shape of one UI event.
type EventRequest struct {
	ComponentID int            `json:"component_id"`
	Event       string         `json:"event"`
	Action      string         `json:"action"`
	Parameters  map[string]any `json:"parameters"`
}

const eventSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["component_id", "event", "action"],
  "properties": {
    "component_id": { "type": "integer", "minimum": 1 },
    "event":        { "type": "string", "minLength": 1 },
    "action":       { "type": "string", "minLength": 1, "pattern": "^[a-z][a-z0-9_]*$" },
    "parameters":   { "type": "object" }
  },
  "additionalProperties": false
}`

var eventSchema = mustCompile("https://usim.idei.dev/schemas/ui-event.schema.json", eventSchemaJSON)

func mustCompile(url, schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		panic(err)
	}
	return c.MustCompile(url)
}

// validateEvent checks a decoded request body against the event schema and
// returns per-field messages; nil means the request is well formed.
func validateEvent(raw map[string]any) map[string]string {
	err := eventSchema.Validate(raw)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		fields["request"] = err.Error()
		return fields
	}
	collectCauses(verr, fields)
	return fields
}

// collectCauses walks to the leaf causes; each leaf names the offending
// instance location, which maps back to a request field.
func collectCauses(verr *jsonschema.ValidationError, fields map[string]string) {
	if len(verr.Causes) == 0 {
		field := strings.TrimPrefix(verr.InstanceLocation, "/")
		if field == "" {
			field = "request"
		}
		if _, ok := fields[field]; !ok {
			fields[field] = verr.Message
		}
		return
	}
	for _, cause := range verr.Causes {
		collectCauses(cause, fields)
	}
}
