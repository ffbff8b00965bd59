package tools

import (
	"fmt"
	"sort"

	"memomcp/internal/logging"
)

// Registry holds the fixed set of tools, addressable by name.
// It is built once and never mutated, so it is safe for concurrent use
// without locking.
type Registry struct {
	ordered []*Tool
	byName  map[string]*Tool
}

// NewRegistry validates and indexes the given tools in order.
// Returns an error if any tool is invalid or two tools share a name.
func NewRegistry(list ...*Tool) (*Registry, error) {
	r := &Registry{
		ordered: make([]*Tool, 0, len(list)),
		byName:  make(map[string]*Tool, len(list)),
	}

	for _, tool := range list {
		if tool == nil {
			return nil, fmt.Errorf("invalid tool: %w", ErrToolExecuteNil)
		}
		if err := tool.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tool: %w", err)
		}
		if _, exists := r.byName[tool.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
		}

		r.ordered = append(r.ordered, tool)
		r.byName[tool.Name] = tool
		logging.ToolsDebug("Registered tool: %s (%d properties)", tool.Name, len(tool.Schema.PropertyNames()))
	}

	return r, nil
}

// MustNewRegistry is NewRegistry that panics on error.
// Use this for static tool sets assembled at init time.
func MustNewRegistry(list ...*Tool) *Registry {
	r, err := NewRegistry(list...)
	if err != nil {
		panic(fmt.Sprintf("failed to build tool registry: %v", err))
	}
	return r
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// All returns all registered tools in registration order.
func (r *Registry) All() []*Tool {
	out := make([]*Tool, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Definitions returns the declarative listing of every tool, in
// registration order. Actions are never exposed.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.ordered))
	for _, tool := range r.ordered {
		defs = append(defs, tool.Definition())
	}
	return defs
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, tool := range r.ordered {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.ordered)
}
