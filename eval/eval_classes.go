package eval

import (
	"fmt"

	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/function"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/scope"
)

// evalClassStatement defines a class in two steps: the name is declared
// as nil first, so methods can refer to the class by name, then the
// constructed class value is assigned over it.
//
// When a superclass is present, the method-definition scope gains an
// extra frame binding `super`, mirroring the frame the resolver opened.
// Every method closure captures that scope; `this` is bound later, at
// method-bind time.
func (e *Evaluator) evalClassStatement(n *parser.ClassStatementNode) objects.LoxObject {
	var superclass *function.Class
	if n.Superclass != nil {
		superValue := e.Eval(n.Superclass)
		if objects.IsError(superValue) {
			return superValue
		}
		var ok bool
		superclass, ok = superValue.(*function.Class)
		if !ok {
			return e.errorAt(n.Superclass.Span(), "superclass must be a class, got %s", superValue.GetType())
		}
	}

	e.defineName(n.Name.Literal, &objects.Nil{})

	definitionScope := e.Scp
	if superclass != nil {
		definitionScope = scope.NewScope(e.Scp)
		definitionScope.Define("super", superclass)
	}

	methods := make(map[string]*function.Function, len(n.Methods))
	for _, method := range n.Methods {
		methods[method.Name.Literal] = &function.Function{
			Name:          method.Name.Literal,
			Decl:          method.Function,
			Scp:           definitionScope,
			IsInitializer: method.Name.Literal == "init",
		}
	}

	class := &function.Class{
		Name:       n.Name.Literal,
		Superclass: superclass,
		Methods:    methods,
	}
	e.assignName(n.Name.Literal, class)
	return &objects.Nil{}
}

// instantiate constructs an instance of a class, running its initializer
// when one exists. Arity is checked against the initializer (zero
// without one).
func (e *Evaluator) instantiate(n *parser.CallExpressionNode, class *function.Class, args []objects.LoxObject) objects.LoxObject {
	if len(args) != class.Arity() {
		return e.errorAt(n.CloseParen.Span, "expected %d arguments but got %d", class.Arity(), len(args))
	}

	instance := function.NewInstance(class)
	if init, ok := class.Initializer(); ok {
		result := e.callFunction(init.Bind(instance), args)
		if objects.IsError(result) {
			return result
		}
	}
	return instance
}

// evalGetExpression reads a property off an instance: fields first, then
// methods bound to the instance.
func (e *Evaluator) evalGetExpression(n *parser.GetExpressionNode) objects.LoxObject {
	target := e.Eval(n.Target)
	if objects.IsError(target) {
		return target
	}

	instance, ok := target.(*function.Instance)
	if !ok {
		return e.errorAt(n.Name.Span, "only instances have properties, got %s", target.GetType())
	}

	if value, found := instance.Get(n.Name.Literal); found {
		return value
	}
	return e.undefinedProperty(n.Name.Span, n.Name.Literal, instance)
}

// evalSetExpression writes a field unconditionally; only instances can
// be assigned into.
func (e *Evaluator) evalSetExpression(n *parser.SetExpressionNode) objects.LoxObject {
	target := e.Eval(n.Target)
	if objects.IsError(target) {
		return target
	}

	instance, ok := target.(*function.Instance)
	if !ok {
		return e.errorAt(n.Name.Span, "only instances have fields, got %s", target.GetType())
	}

	value := e.Eval(n.Value)
	if objects.IsError(value) {
		return value
	}
	instance.Set(n.Name.Literal, value)
	return value
}

// evalSuperExpression resolves a method starting at the superclass of
// the class the method was defined in, then binds it to the current
// instance. The resolver placed `super` and `this` in adjacent frames,
// so `this` always sits one hop below `super`.
func (e *Evaluator) evalSuperExpression(n *parser.SuperExpressionNode) objects.LoxObject {
	depth, ok := e.Locals[n]
	if !ok {
		return e.internalError(n.Keyword.Span, "'super' expression missing from depth table")
	}

	superValue, found := e.Scp.GetAt(depth, "super")
	if !found {
		return e.internalError(n.Keyword.Span, "'super' missing at depth %d", depth)
	}
	superclass := superValue.(*function.Class)

	thisValue, found := e.Scp.GetAt(depth-1, "this")
	if !found {
		return e.internalError(n.Keyword.Span, "'this' missing below 'super'")
	}
	instance := thisValue.(*function.Instance)

	method, found := superclass.FindMethod(n.Method.Literal)
	if !found {
		return e.undefinedProperty(n.Method.Span, n.Method.Literal, instance)
	}
	return method.Bind(instance)
}

// undefinedProperty builds the property-miss error, with a fuzzy
// suggestion over the instance's fields and methods when one is close.
func (e *Evaluator) undefinedProperty(span diag.Span, name string, instance *function.Instance) *objects.Error {
	message := fmt.Sprintf("undefined property %q", name)
	if suggestion, ok := closestMatch(name, instance.FieldNames()); ok {
		message += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return &objects.Error{Kind: diag.Eval, Message: message, Span: span}
}
