// Package interp walks the mini-script AST produced by cycles/lang/parser
// against a lexically scoped environment, exactly per the interpreter
// design in the language specification: let/const bindings, block scopes,
// arrow-function closures, native-function and extension-method dispatch,
// and the import/export module mechanism.
package interp

import (
	"fmt"

	"github.com/wbrown/cycles/lang/ast"
)

// Engine owns one Registry and Loader and evaluates scripts against them.
// Per spec §9 ("Global mutable state: none is required... keep [registries]
// on the engine instance; do not promote to process globals"), every
// Engine is independent.
type Engine struct {
	Registry *Registry
	Loader   Loader
}

// NewEngine returns an Engine with its own Registry and the default
// Registry-backed Loader.
func NewEngine() *Engine {
	reg := NewRegistry()
	return &Engine{Registry: reg, Loader: &RegistryLoader{Registry: reg}}
}

// Run parses and evaluates source in a fresh top-level environment,
// returning the value of the final statement (nil when that statement is a
// declaration, import or export).
func (e *Engine) Run(source string) (Value, error) {
	prog, err := parseProgram(source)
	if err != nil {
		return nil, err
	}
	env := NewEnvironment()
	i := &interpreter{engine: e}
	return i.runProgram(prog, env)
}

// parseProgram forwards to parseSource (ops.go), the one place this
// package calls into cycles/lang/parser.
func parseProgram(source string) (*ast.Program, error) {
	return parseSource(source)
}

type interpreter struct {
	engine *Engine
}

// returnSignal unwinds block execution back to the nearest function call
// boundary; it is not a user-visible error.
type returnSignal struct {
	value Value
}

func (i *interpreter) runProgram(prog *ast.Program, env *Environment) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				return
			}
			panic(r)
		}
	}()
	var last Value
	for _, stmt := range prog.Stmts {
		v, rerr := i.execStmt(stmt, env)
		if rerr != nil {
			return nil, rerr
		}
		last = v
	}
	return last, nil
}

func (i *interpreter) execBlock(stmts []ast.Stmt, env *Environment) (Value, error) {
	var last Value
	for _, stmt := range stmts {
		v, err := i.execStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (i *interpreter) execStmt(stmt ast.Stmt, env *Environment) (Value, error) {
	switch s := stmt.(type) {
	case *ast.LetDecl:
		if b, ok := env.vars[s.Name]; ok && b.const_ {
			return nil, &NameError{Ident: s.Name, Message: "cannot redefine const"}
		}
		var v Value
		if s.Init != nil {
			var err error
			v, err = i.eval(s.Init, env)
			if err != nil {
				return nil, err
			}
		}
		env.DefineLet(s.Name, v)
		return nil, nil
	case *ast.ConstDecl:
		if b, ok := env.vars[s.Name]; ok && b.const_ {
			return nil, &NameError{Ident: s.Name, Message: "cannot redefine const"}
		}
		v, err := i.eval(s.Init, env)
		if err != nil {
			return nil, err
		}
		env.DefineConst(s.Name, v)
		return nil, nil
	case *ast.ReturnStmt:
		var v Value
		if s.Value != nil {
			var err error
			v, err = i.eval(s.Value, env)
			if err != nil {
				return nil, err
			}
		}
		panic(returnSignal{value: v})
	case *ast.ImportStmt:
		return nil, i.execImport(s, env)
	case *ast.ExportStmt:
		return nil, nil // exports are read by the importer, not acted on here
	case *ast.BlockStmt:
		return i.execBlock(s.Stmts, env.Child())
	case *ast.ExprStmt:
		return i.eval(s.X, env)
	default:
		return nil, fmt.Errorf("cycles: internal error: unhandled statement %T", stmt)
	}
}

func (i *interpreter) execImport(s *ast.ImportStmt, env *Environment) error {
	lib, err := i.engine.Loader.Load(s.Library)
	if err != nil {
		return err
	}
	i.engine.Registry.ApplyOnce(lib)

	exports := lib.Exports
	if lib.Source != "" {
		moduleEnv := NewEnvironment()
		moduleExports, err := i.runModule(lib.Source, moduleEnv)
		if err != nil {
			return err
		}
		for k, v := range moduleExports {
			exports[k] = v
		}
	}

	if s.Wildcard {
		if s.WildcardName != "" {
			ns := NewObject()
			for k, v := range exports {
				ns.Set(k, v)
			}
			env.DefineLet(s.WildcardName, ns)
			return nil
		}
		for k, v := range exports {
			env.DefineLet(k, v)
		}
		return nil
	}
	for _, b := range s.Bindings {
		v, ok := exports[b.Name]
		if !ok {
			return &NameError{Ident: b.Name, Message: "not exported by " + s.Library}
		}
		env.DefineLet(b.Alias, v)
	}
	return nil
}

// runModule evaluates a library's source in its own environment and
// returns the bindings named by its export statement.
func (i *interpreter) runModule(source string, env *Environment) (map[string]Value, error) {
	prog, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	exports := map[string]Value{}
	for _, stmt := range prog.Stmts {
		if exp, ok := stmt.(*ast.ExportStmt); ok {
			for _, b := range exp.Bindings {
				v, err := env.Get(b.Name)
				if err != nil {
					return nil, err
				}
				exports[b.Alias] = v
			}
			continue
		}
		if _, err := i.execStmt(stmt, env); err != nil {
			return nil, err
		}
	}
	return exports, nil
}

func (i *interpreter) eval(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return e.Value, nil
	case *ast.StringLit:
		return e.Value, nil
	case *ast.BoolLit:
		return e.Value, nil
	case *ast.NullLit:
		return nil, nil
	case *ast.Ident:
		return env.Get(e.Name)
	case *ast.ArrayLit:
		arr := &Array{Elements: make([]Value, 0, len(e.Elements))}
		for _, el := range e.Elements {
			v, err := i.eval(el, env)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, v)
		}
		return arr, nil
	case *ast.ObjectLit:
		obj := NewObject()
		for _, p := range e.Properties {
			v, err := i.eval(p.Value, env)
			if err != nil {
				return nil, err
			}
			obj.Set(p.Key, v)
		}
		return obj, nil
	case *ast.ArrowFunc:
		return &Closure{Params: e.Params, Body: e.Body, BlockBody: e.BlockBody, Env: env, Engine: i.engine}, nil
	case *ast.UnaryExpr:
		return i.evalUnary(e, env)
	case *ast.BinaryExpr:
		return i.evalBinary(e, env)
	case *ast.CallExpr:
		return i.evalCall(e, env)
	case *ast.MemberExpr:
		return i.evalMember(e, env)
	default:
		return nil, fmt.Errorf("cycles: internal error: unhandled expression %T", expr)
	}
}

func (i *interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, error) {
	v, err := i.eval(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		n, err := asNumber("unary -", v)
		if err != nil {
			return nil, err
		}
		return -n, nil
	case "+":
		return asNumber("unary +", v)
	case "!":
		return !Truthy(v), nil
	default:
		return nil, fmt.Errorf("cycles: internal error: unhandled unary op %q", e.Op)
	}
}

func (i *interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	if e.Op == "&&" {
		l, err := i.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(l) {
			return l, nil
		}
		return i.eval(e.Right, env)
	}
	if e.Op == "||" {
		l, err := i.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if Truthy(l) {
			return l, nil
		}
		return i.eval(e.Right, env)
	}

	l, err := i.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := i.eval(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+":
		return evalPlus(l, r)
	case "-", "*", "/", "%":
		return evalArith(e.Op, l, r)
	case "==":
		return valueEqual(l, r), nil
	case "!=":
		return !valueEqual(l, r), nil
	case "<", "<=", ">", ">=":
		return evalCompare(e.Op, l, r)
	default:
		return nil, fmt.Errorf("cycles: internal error: unhandled binary op %q", e.Op)
	}
}

func (i *interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	if member, ok := e.Callee.(*ast.MemberExpr); ok {
		return i.evalMethodCall(member, e.Args, env)
	}
	callee, err := i.eval(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(e.Args, env)
	if err != nil {
		return nil, err
	}
	return i.invoke(callee, args)
}

func (i *interpreter) evalArgs(exprs []ast.Expr, env *Environment) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, a := range exprs {
		v, err := i.eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// Call invokes a Closure or NativeFunc value from host code, the seam
// cycles/lang/stdlib uses to hand script-level callbacks (e.g. a
// `.superimpose` transform) down into pattern combinators. A Closure
// carries its own Engine reference (set at creation, see eval's ArrowFunc
// case), so no Engine needs to be threaded in separately.
func Call(callee Value, args []Value) (Value, error) {
	var engine *Engine
	if c, ok := callee.(*Closure); ok {
		engine = c.Engine
	}
	i := &interpreter{engine: engine}
	return i.invoke(callee, args)
}

func (i *interpreter) invoke(callee Value, args []Value) (Value, error) {
	switch f := callee.(type) {
	case *NativeFunc:
		return f.Fn(args)
	case *Closure:
		return i.invokeClosure(f, args)
	default:
		return nil, &TypeError{Message: fmt.Sprintf("value is not callable: %s", Stringify(callee))}
	}
}

func (i *interpreter) invokeClosure(c *Closure, args []Value) (result Value, err error) {
	callEnv := c.Env.Child()
	for idx, name := range c.Params {
		var v Value
		if idx < len(args) {
			v = args[idx]
		}
		callEnv.DefineLet(name, v)
	}
	if c.Body != nil {
		return i.eval(c.Body, callEnv)
	}

	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				err = nil
				return
			}
			panic(r)
		}
	}()
	return i.execBlock(c.BlockBody, callEnv)
}

func (i *interpreter) evalMember(e *ast.MemberExpr, env *Environment) (Value, error) {
	obj, err := i.eval(e.Object, env)
	if err != nil {
		return nil, err
	}
	return i.memberValue(obj, e.Property)
}

func (i *interpreter) memberValue(obj Value, property string) (Value, error) {
	switch o := obj.(type) {
	case *Object:
		v, ok := o.Get(property)
		if !ok {
			return nil, nil
		}
		return v, nil
	case *NativeObject:
		return nil, &TypeError{Message: fmt.Sprintf("no property %q on %s (use a method call)", property, o.Type)}
	default:
		return nil, &TypeError{Message: fmt.Sprintf("cannot read property %q of %s", property, Stringify(obj))}
	}
}

// evalMethodCall dispatches `object.method(args)`. On an Object, `method`
// is looked up as a regular property expected to hold a callable. On a
// NativeObject, it is looked up in the engine Registry's extension-method
// table keyed by (object.Type, method).
func (i *interpreter) evalMethodCall(member *ast.MemberExpr, argExprs []ast.Expr, env *Environment) (Value, error) {
	obj, err := i.eval(member.Object, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(argExprs, env)
	if err != nil {
		return nil, err
	}

	if native, ok := obj.(*NativeObject); ok {
		method, found := i.engine.Registry.Method(native.Type, member.Property)
		if !found {
			return nil, &TypeError{Message: fmt.Sprintf("no method %q on %s", member.Property, native.Type)}
		}
		return method(native.Value, args)
	}

	callee, err := i.memberValue(obj, member.Property)
	if err != nil {
		return nil, err
	}
	return i.invoke(callee, args)
}
