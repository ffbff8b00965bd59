package tools

import (
	"github.com/invopop/jsonschema"
)

// SchemaFor derives a ToolSchema from the exported fields of T.
//
// Property names come from json tags and descriptions from
// jsonschema_description tags. A field is required unless its json tag
// carries omitempty. Declaration order is kept.
func SchemaFor[T any]() ToolSchema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	var v T
	reflected := reflector.Reflect(v)

	schema := NewToolSchema()
	if reflected == nil || reflected.Properties == nil {
		return schema
	}

	for pair := reflected.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := Property{}
		if pair.Value != nil {
			prop.Type = pair.Value.Type
			prop.Description = pair.Value.Description
			prop.Default = pair.Value.Default
		}
		schema.Properties.Set(pair.Key, prop)
	}
	schema.Required = append(schema.Required, reflected.Required...)

	return schema
}
