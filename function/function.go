// Package function defines the callable and object-oriented runtime
// values of the Lox evaluator: closures, classes and instances. They
// implement the objects.LoxObject interface; the evaluator owns the
// calling convention.
package function

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/scope"
	"github.com/samber/lo"
)

// Function is a closure: the AST of its definition together with the
// scope captured when the function value was created. Initializer
// closures (methods named `init`) return `this` regardless of their
// body's return.
type Function struct {
	Name          string                         // Declared name, empty for anonymous functions
	Decl          *parser.FunctionExpressionNode // Parameters and body
	Scp           *scope.Scope                   // Captured defining scope
	IsInitializer bool                           // True for `init` methods
}

// GetType returns the function type tag.
func (f *Function) GetType() objects.LoxType { return objects.FunctionType }

// ToString renders the function's display form.
func (f *Function) ToString() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("[<function>%s]", name)
}

// ToObject renders the function with its parameter list.
func (f *Function) ToObject() string {
	params := lo.Map(f.Decl.Params, func(p lexer.Token, _ int) string { return p.Literal })
	return fmt.Sprintf("[<function>%s(%s)]", f.Name, strings.Join(params, ", "))
}

// Arity returns the number of parameters the closure expects.
func (f *Function) Arity() int {
	return len(f.Decl.Params)
}

// Bind produces a new closure whose captured scope has `this` defined at
// depth 0, pointing at the given instance. Method bodies reach the
// instance through that frame.
func (f *Function) Bind(instance *Instance) *Function {
	thisScope := scope.NewScope(f.Scp)
	thisScope.Define("this", instance)
	return &Function{
		Name:          f.Name,
		Decl:          f.Decl,
		Scp:           thisScope,
		IsInitializer: f.IsInitializer,
	}
}

// Class is a class value: a name, an optional shared superclass and the
// method table. Classes are reference-shared; two variables can hold the
// same class.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// GetType returns the class type tag.
func (c *Class) GetType() objects.LoxType { return objects.ClassType }

// ToString renders the class display form.
func (c *Class) ToString() string { return fmt.Sprintf("[<Class %s>]", c.Name) }

// ToObject renders the class with its method names.
func (c *Class) ToObject() string {
	names := lo.Keys(c.Methods)
	sort.Strings(names)
	return fmt.Sprintf("[<Class %s>, methods=[%s]]", c.Name, strings.Join(names, ", "))
}

// FindMethod looks a method up on the class, walking the superclass
// chain upward on a miss.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for cur := c; cur != nil; cur = cur.Superclass {
		if method, ok := cur.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// Initializer returns the class's `init` method, if any, searching the
// superclass chain.
func (c *Class) Initializer() (*Function, bool) {
	return c.FindMethod("init")
}

// Arity returns the arity of the class's initializer, or zero when the
// class has none.
func (c *Class) Arity() int {
	if init, ok := c.Initializer(); ok {
		return init.Arity()
	}
	return 0
}

// Instance is an object: a shared reference to its class and a mutable
// field map it owns. The class reference is set at construction and
// never mutated afterwards.
type Instance struct {
	Class  *Class
	Fields map[string]objects.LoxObject
}

// NewInstance creates an empty instance of a class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]objects.LoxObject)}
}

// GetType returns the instance type tag.
func (i *Instance) GetType() objects.LoxType { return objects.InstanceType }

// ToString renders the instance display form.
func (i *Instance) ToString() string { return fmt.Sprintf("[<Instance %s>]", i.Class.Name) }

// ToObject renders the instance with its fields in name order.
func (i *Instance) ToObject() string {
	names := lo.Keys(i.Fields)
	sort.Strings(names)
	fields := lo.Map(names, func(name string, _ int) string {
		return name + "=" + i.Fields[name].ToString()
	})
	return fmt.Sprintf("[<Instance %s>, fields=[%s]]", i.Class.Name, strings.Join(fields, ", "))
}

// Get resolves a property on the instance. Fields shadow methods; a
// method hit is bound to the instance before it is returned.
func (i *Instance) Get(name string) (objects.LoxObject, bool) {
	if field, ok := i.Fields[name]; ok {
		return field, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

// Set writes a field unconditionally; fields spring into existence on
// first assignment.
func (i *Instance) Set(name string, value objects.LoxObject) {
	i.Fields[name] = value
}

// FieldNames returns the instance's field names together with the method
// names of its class and superclasses, sorted, used for property
// suggestions.
func (i *Instance) FieldNames() []string {
	names := lo.Keys(i.Fields)
	for cur := i.Class; cur != nil; cur = cur.Superclass {
		names = append(names, lo.Keys(cur.Methods)...)
	}
	sort.Strings(names)
	return names
}
