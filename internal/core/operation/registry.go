package operation

import "github.com/hay-kot/hadaf/internal/core/syntax"

// Built-in operation names.
const (
	NameFilter   = "filter"
	NameSort     = "sort"
	NameDefaults = "defaults"
	NameApply    = "apply"
	NameGroupBy  = "groupBy"
)

// Registry maps operation names to factories and remembers registration order.
type Registry struct {
	names     []string
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Builtin returns a registry holding every built-in operation.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(NameFilter, NewFilter)
	r.Register(NameSort, NewSort)
	r.Register(NameDefaults, NewDefaults)
	r.Register(NameApply, NewApply)
	r.Register(NameGroupBy, NewGroupBy)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory Factory) {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}
	r.factories[name] = factory
}

// Lookup returns the factory registered for name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// New instantiates the operation configured by item, keyed by its title.
func (r *Registry) New(deps Deps, item *syntax.Item) (Operation, bool) {
	factory, ok := r.factories[item.Title]
	if !ok {
		return nil, false
	}
	return factory(deps, item), true
}
