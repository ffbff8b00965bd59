// Package tools provides the tool registry and invocation contract for memomcp.
//
// A Tool pairs a declarative input schema with an executable action. Tools are
// collected once into an immutable Registry, and every front-end (the one-shot
// CLI and the MCP stdio server) drives them through Invoke, which normalizes
// each outcome into a Result.
//
// Architecture:
//
//	Front-end → Invoke(Registry, name, args) → Tool.Execute → Result
package tools

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// ToolSchema defines the JSON schema for tool arguments.
// Properties keep their declaration order so listings are stable.
type ToolSchema struct {
	Type       string                                   `json:"type"`
	Properties *orderedmap.OrderedMap[string, Property] `json:"properties"`
	Required   []string                                 `json:"required"`
}

// NewToolSchema returns an empty object schema.
func NewToolSchema() ToolSchema {
	return ToolSchema{
		Type:       "object",
		Properties: orderedmap.New[string, Property](),
		Required:   []string{},
	}
}

// Property returns the named property, if declared.
func (s ToolSchema) Property(name string) (Property, bool) {
	if s.Properties == nil {
		return Property{}, false
	}
	return s.Properties.Get(name)
}

// PropertyNames returns property names in declaration order.
func (s ToolSchema) PropertyNames() []string {
	if s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// IsRequired reports whether name is listed in Required.
func (s ToolSchema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// SetDefault records a default value on an existing property.
func (s ToolSchema) SetDefault(name string, value any) ToolSchema {
	if p, ok := s.Property(name); ok {
		p.Default = value
		s.Properties.Set(name, p)
	}
	return s
}

// validate checks that every required name is a declared property.
func (s ToolSchema) validate() error {
	for _, r := range s.Required {
		if _, ok := s.Property(r); !ok {
			return fmt.Errorf("%w: %s", ErrRequiredNotDeclared, r)
		}
	}
	return nil
}

// ExecuteFunc is the signature for tool execution.
// A string result is passed through verbatim; any other value is serialized
// to indented JSON by Invoke.
type ExecuteFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool defines a named, schema-described operation.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description explains what the tool does.
	Description string

	// Schema defines the expected arguments. It is advisory: Execute
	// re-checks its own arguments.
	Schema ToolSchema

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	if err := t.Schema.validate(); err != nil {
		return fmt.Errorf("tool %s: %w", t.Name, err)
	}
	return nil
}

// Definition is the declarative half of a Tool, safe to hand to callers.
type Definition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema ToolSchema `json:"inputSchema"`
}

// Definition returns the tool's declarative contract.
func (t *Tool) Definition() Definition {
	return Definition{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.Schema,
	}
}

// Result is the normalized outcome of one invocation: either a success
// payload or a failure message.
type Result struct {
	// ToolName identifies which tool was requested.
	ToolName string

	// Text is the payload on success and the message on failure.
	Text string

	// IsError marks the failure branch.
	IsError bool

	// DurationMs is how long execution took.
	DurationMs int64
}

// Ok builds a success result.
func Ok(toolName, payload string) Result {
	return Result{ToolName: toolName, Text: payload}
}

// Err builds a failure result.
func Err(toolName, message string) Result {
	return Result{ToolName: toolName, Text: message, IsError: true}
}

// IsSuccess returns true if the tool executed without error.
func (r Result) IsSuccess() bool {
	return !r.IsError
}
