// Tool registry - a fixed catalog of tool definitions.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Registration and discovery mechanisms abstracted

package tools

import (
	"fmt"
	"sort"
)

// Registry maps tool names to behaviors. It is populated once at
// startup and read-only afterwards, so it is safely shared across
// concurrent requests without locking.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a new tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all registered tools in name order.
func (r *Registry) List() []ToolMetadata {
	metadata := make([]ToolMetadata, 0, len(r.tools))
	for _, name := range r.Names() {
		metadata = append(metadata, r.tools[name].Metadata())
	}
	return metadata
}

// Catalog returns the registry as a name-keyed map, the shape served
// by the functions endpoint.
func (r *Registry) Catalog() map[string]ToolMetadata {
	catalog := make(map[string]ToolMetadata, len(r.tools))
	for name, tool := range r.tools {
		catalog[name] = tool.Metadata()
	}
	return catalog
}
