// Package scope implements the lexical environment chain for the Lox
// evaluator. A Scope is a frame of name bindings with an optional parent;
// closures capture a *Scope, and the chain is only ever walked upward, so
// the structure stays acyclic.
package scope

import "github.com/golox-lang/golox/objects"

// Scope defines a lexical scope boundary for variable lifetime and
// accessibility. Each scope holds its own bindings and can reach
// variables of enclosing scopes through the parent chain. Inner scopes
// shadow outer ones; closures keep their defining scope alive.
type Scope struct {
	// Variables maps names to their current values in this frame.
	// Allocated lazily on first definition.
	Variables map[string]objects.LoxObject

	// Parent points to the enclosing scope; nil marks a root scope.
	Parent *Scope
}

// NewScope creates a scope with the given parent. A nil parent creates a
// root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent}
}

// Define inserts or overwrites a binding in this frame only. Parent
// scopes are never touched, so defining freely shadows outer bindings.
func (s *Scope) Define(name string, obj objects.LoxObject) {
	if s.Variables == nil {
		s.Variables = make(map[string]objects.LoxObject)
	}
	s.Variables[name] = obj
}

// Get walks the chain upward and returns the first binding of name.
// The walk is iterative: scope chains can be millions of frames deep and
// must not consume call stack proportional to their depth.
func (s *Scope) Get(name string) (objects.LoxObject, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Variables != nil {
			if obj, ok := cur.Variables[name]; ok {
				return obj, true
			}
		}
	}
	return nil, false
}

// Assign walks the chain upward and updates the frame where name was
// defined. It reports false if name is not defined anywhere in the
// chain; no binding is created in that case.
func (s *Scope) Assign(name string, obj objects.LoxObject) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Variables != nil {
			if _, ok := cur.Variables[name]; ok {
				cur.Variables[name] = obj
				return true
			}
		}
	}
	return false
}

// Ancestor returns the scope exactly depth hops up the chain, or nil if
// the chain is shorter than that. Depth 0 is the receiver itself.
func (s *Scope) Ancestor(depth int) *Scope {
	cur := s
	for i := 0; i < depth && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

// GetAt reads name directly from the frame depth hops up the chain.
// The resolver guarantees the binding exists at that depth; a miss here
// is a resolution bug surfaced to the caller.
func (s *Scope) GetAt(depth int, name string) (objects.LoxObject, bool) {
	ancestor := s.Ancestor(depth)
	if ancestor == nil || ancestor.Variables == nil {
		return nil, false
	}
	obj, ok := ancestor.Variables[name]
	return obj, ok
}

// AssignAt writes name directly into the frame depth hops up the chain.
func (s *Scope) AssignAt(depth int, name string, obj objects.LoxObject) bool {
	ancestor := s.Ancestor(depth)
	if ancestor == nil {
		return false
	}
	ancestor.Define(name, obj)
	return true
}

// Release unlinks the whole chain starting at s. Severing each parent
// pointer in a loop lets the collector reclaim even chains tens of
// millions of frames deep without any recursive teardown.
func (s *Scope) Release() {
	cur := s
	for cur != nil {
		parent := cur.Parent
		cur.Parent = nil
		cur.Variables = nil
		cur = parent
	}
}
