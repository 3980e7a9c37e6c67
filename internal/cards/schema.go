package cards

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// cardSchemaDef validates the shape of a bare card document. Cards in the
// wild carry extra fields, so only the fields this code reads are pinned
// down and everything else passes through.
var cardSchemaDef = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"name"},
	Properties: map[string]*jsonschema.Schema{
		"name":                 {Type: "string"},
		"file-name":            {Type: "string"},
		"tags":                 stringArraySchema(),
		"first_message":        stringArraySchema(),
		"hobbies":              stringArraySchema(),
		"likes":                stringArraySchema(),
		"dislikes":             stringArraySchema(),
		"age":                  {Type: "string"},
		"occupation":           {Type: "string"},
		"avatar_url":           {Type: "string"},
		"personality":          {Type: "string"},
		"appearance":           {Type: "string"},
		"speaking_style":       {Type: "string"},
		"scenario":             {Type: "string"},
		"background":           {Type: "string"},
		"character_definition": {Type: "object"},
		"example_dialogue": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"user": {Type: "string"},
					"char": {Type: "string"},
				},
			},
		},
	},
}

func stringArraySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{Type: "string"},
	}
}

var (
	schemaOnce     sync.Once
	resolvedSchema *jsonschema.Resolved
	schemaErr      error
)

func cardSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		resolvedSchema, schemaErr = cardSchemaDef.Resolve(nil)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to resolve card schema: %w", schemaErr)
		}
	})
	return resolvedSchema, schemaErr
}

// ValidateCard checks a bare card document against the schema.
func ValidateCard(raw []byte) error {
	resolved, err := cardSchema()
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("character card is not valid JSON: %w", err)
	}
	if err := resolved.Validate(value); err != nil {
		return fmt.Errorf("invalid character card: %w", err)
	}
	return nil
}
