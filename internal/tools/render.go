package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ListingRenderer renders tool definitions for humans.
type ListingRenderer struct {
	includeSchemas bool
	maxSchemaLen   int
}

// NewListingRenderer creates a renderer that includes schemas in Markdown output.
func NewListingRenderer() *ListingRenderer {
	return &ListingRenderer{
		includeSchemas: true,
		maxSchemaLen:   2000,
	}
}

// SetIncludeSchemas sets whether Markdown output embeds each JSON schema.
func (r *ListingRenderer) SetIncludeSchemas(include bool) {
	r.includeSchemas = include
}

// SetMaxSchemaLen sets the maximum length for embedded JSON schemas.
func (r *ListingRenderer) SetMaxSchemaLen(maxLen int) {
	r.maxSchemaLen = maxLen
}

// RenderText renders the plain listing printed by the CLI.
func (r *ListingRenderer) RenderText(defs []Definition) string {
	var sb strings.Builder
	sb.WriteString("Available tools:\n\n")
	for _, def := range defs {
		fmt.Fprintf(&sb, "%s\n", def.Name)
		fmt.Fprintf(&sb, "  Description: %s\n", def.Description)
		sb.WriteString("  Arguments:\n")
		sb.WriteString(FormatArguments(def.InputSchema))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// RenderMarkdown renders the listing as Markdown.
func (r *ListingRenderer) RenderMarkdown(defs []Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Available Tools (%d)\n\n", len(defs))
	for _, def := range defs {
		fmt.Fprintf(&sb, "#### %s\n", def.Name)
		if def.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", def.Description)
		}
		for _, name := range def.InputSchema.PropertyNames() {
			prop, _ := def.InputSchema.Property(name)
			fmt.Fprintf(&sb, "- `%s` (%s)%s: %s\n", name, prop.Type, requiredMark(def.InputSchema, name), describe(prop))
		}
		if r.includeSchemas {
			if schema := r.formatSchema(def.InputSchema); schema != "" {
				fmt.Fprintf(&sb, "\n**Parameters:**\n```json\n%s\n```\n", schema)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatArguments renders one line per schema property:
// "  - name: description [required]".
func FormatArguments(schema ToolSchema) string {
	names := schema.PropertyNames()
	if len(names) == 0 {
		return "  No arguments"
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		prop, _ := schema.Property(name)
		mark := "[optional]"
		if schema.IsRequired(name) {
			mark = "[required]"
		}
		lines = append(lines, fmt.Sprintf("  - %s: %s %s", name, describe(prop), mark))
	}
	return strings.Join(lines, "\n")
}

func describe(p Property) string {
	if p.Description == "" {
		return "No description"
	}
	return p.Description
}

func requiredMark(schema ToolSchema, name string) string {
	if schema.IsRequired(name) {
		return " *required*"
	}
	return ""
}

// formatSchema formats a JSON schema for display.
func (r *ListingRenderer) formatSchema(schema ToolSchema) string {
	formatted, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return ""
	}

	result := string(formatted)

	// Truncate if too long
	if r.maxSchemaLen > 0 && len(result) > r.maxSchemaLen {
		result = result[:r.maxSchemaLen] + "\n  ...(truncated)"
	}

	return result
}
