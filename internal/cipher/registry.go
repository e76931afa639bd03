package cipher

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry indexes operations by name. The package keeps one shared
// instance that every built-in variant registers into at init time.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

var defaultRegistry = NewRegistry()

// Add registers op. Names must be unique and non-empty.
func (r *Registry) Add(op Operation) error {
	if op == nil {
		return errors.New("cannot register nil operation")
	}
	name := op.Name()
	if name == "" {
		return errors.New("operation name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ops[name]; dup {
		return fmt.Errorf("operation %s is already registered", name)
	}
	r.ops[name] = op
	return nil
}

// Remove drops name. Missing names are ignored.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.ops, name)
	r.mu.Unlock()
}

// Get returns the operation registered under name.
func (r *Registry) Get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Select returns the operations accepted by keep, ordered by name. A nil
// keep returns everything.
func (r *Registry) Select(keep func(Operation) bool) []Operation {
	r.mu.RLock()
	out := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		if keep == nil || keep(op) {
			out = append(out, op)
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b Operation) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// RegisterOperation adds op to the shared registry.
func RegisterOperation(op Operation) error { return defaultRegistry.Add(op) }

// UnregisterOperation removes name from the shared registry.
func UnregisterOperation(name string) { defaultRegistry.Remove(name) }

// GetOperation looks name up in the shared registry.
func GetOperation(name string) (Operation, bool) { return defaultRegistry.Get(name) }

// LookupOperation is GetOperation for callers that propagate failures.
func LookupOperation(name string) (Operation, error) {
	if op, ok := defaultRegistry.Get(name); ok {
		return op, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}

// ListOperations returns every registered operation ordered by name.
func ListOperations() []Operation { return defaultRegistry.Select(nil) }

// ListOperationsByType returns the operations of one direction.
func ListOperationsByType(opType OperationType) []Operation {
	return defaultRegistry.Select(func(op Operation) bool { return op.Type() == opType })
}

// Variants lists the cipher names that have a "<variant>_encrypt" operation.
func Variants() []string {
	suffix := "_" + string(OperationTypeEncrypt)
	var out []string
	for _, op := range ListOperationsByType(OperationTypeEncrypt) {
		if v, ok := strings.CutSuffix(op.Name(), suffix); ok {
			out = append(out, v)
		}
	}
	return out
}
