package fixture

import (
	"errors"
	"reflect"
	"sort"
	"sync"

	apperrors "github.com/agbru/fixturerun/internal/errors"
)

// Registry maps fixture type names to their constructors. Resolution failures
// are reported as *apperrors.InvalidRegistrationError.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty fixture type registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
	}
}

// Register adds a constructor under the given type name, replacing any
// previous registration of that name.
func (r *Registry) Register(typeName string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[typeName] = ctor
}

// RegisterDefault registers T under its Go type name using new(T) as the
// constructor, and returns that name for use in identities.
func RegisterDefault[T any, PT interface {
	*T
	Fixture
}](r *Registry) string {
	name := TypeName[T]()
	r.Register(name, func() Fixture { return PT(new(T)) })
	return name
}

// TypeName returns the name RegisterDefault uses for T, e.g. "fixtures.Server".
func TypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Resolve returns the constructor registered for typeName.
func (r *Registry) Resolve(typeName string) (Constructor, error) {
	if typeName == "" {
		return nil, &apperrors.InvalidRegistrationError{Type: typeName, Cause: errors.New("empty fixture type")}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[typeName]
	if !ok || ctor == nil {
		return nil, &apperrors.InvalidRegistrationError{Type: typeName}
	}
	return ctor, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
