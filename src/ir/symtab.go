// Package ir implements gaia's type checker and typed intermediate
// representation: an AST (src/frontend) is lowered into MIR (mir.go)
// by Checker (checker.go), resolving names and overloads against a
// SymbolTable (this file).
package ir

import (
	"gaia/src/diag"
	"gaia/src/frontend"
	"gaia/src/types"
	"gaia/src/util"
)

// Var is a bound, immutable name: a function parameter or a let-bound
// local (spec section 1: no mutable variables).
type Var struct {
	Name string
	Type types.Type
}

// FuncTemplate is one declared overload of a function or operator name:
// either a user-defined template (Body non-nil, monomorphized per call
// site) or an extern C-ABI prototype (IsExtern true, never
// monomorphized — its parameter types are taken literally).
type FuncTemplate struct {
	Proto      *frontend.Prototype
	Body       []frontend.Stmt // nil for extern prototypes
	ParamTypes []*types.Type   // nil entry means "inferred from call site"; extern entries are always non-nil
	RetType    *types.Type     // nil means inferred from the checked body
	IsExtern   bool
	Resolved   *Prototype // populated for externs only: their one fully-typed Prototype
}

// Scope is one level of lexical nesting: variables, and ordered lists
// of function/operator templates keyed by declared name so overload
// resolution can walk declaration order within a scope (spec section
// 4.4: "innermost scope first, then declaration order").
type Scope struct {
	vars    map[string]Var
	funcs   map[string][]*FuncTemplate
	externs map[string][]*FuncTemplate
}

func newScope() *Scope {
	return &Scope{
		vars:    make(map[string]Var),
		funcs:   make(map[string][]*FuncTemplate),
		externs: make(map[string][]*FuncTemplate),
	}
}

// SymbolTable is a stack of Scopes, backed by util.Stack. The bottom
// entry (the global scope) is never popped; Push/Pop manage nested
// block scopes introduced by if-branches and function bodies.
type SymbolTable struct {
	scopes util.Stack
	repl   bool // relaxes Redefinition checks at global scope, spec section 9
}

// NewSymbolTable returns a table with just the global scope pushed.
func NewSymbolTable(repl bool) *SymbolTable {
	st := &SymbolTable{repl: repl}
	st.scopes.Push(newScope())
	return st
}

// Push opens a new nested scope.
func (st *SymbolTable) Push() {
	st.scopes.Push(newScope())
}

// Pop closes the innermost scope. Never call this on the global scope.
func (st *SymbolTable) Pop() {
	st.scopes.Pop()
}

func (st *SymbolTable) top() *Scope {
	return st.scopes.Peek().(*Scope)
}

func (st *SymbolTable) atGlobalScope() bool {
	return st.scopes.Size() == 1
}

// scopesInnermostFirst returns every pushed Scope, innermost (top of
// stack) first, matching util.Stack.Get's top-down indexing.
func (st *SymbolTable) scopesInnermostFirst() []*Scope {
	out := make([]*Scope, st.scopes.Size())
	for i := range out {
		out[i] = st.scopes.Get(i + 1).(*Scope)
	}
	return out
}

// DefineVar binds name in the innermost scope. Redefining a name
// already bound in that exact scope is a Redefinition error, except at
// global scope in REPL mode where later definitions shadow earlier ones
// (spec section 9's open question on REPL redefinition).
func (st *SymbolTable) DefineVar(name string, typ types.Type, loc util.SourceLocation) error {
	scope := st.top()
	if _, exists := scope.vars[name]; exists {
		if st.repl && st.atGlobalScope() {
			scope.vars[name] = Var{Name: name, Type: typ}
			return nil
		}
		return diag.New(diag.Redefinition, loc, "variable %q already defined in this scope", name)
	}
	scope.vars[name] = Var{Name: name, Type: typ}
	return nil
}

// LookupVar walks the scope stack innermost-first.
func (st *SymbolTable) LookupVar(name string) (Var, bool) {
	for _, scope := range st.scopesInnermostFirst() {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	return Var{}, false
}

// DefineFunc appends tpl to the innermost scope's template list for its
// declared name, enforcing the extern/non-extern bucket it belongs to.
// Declaration order within a scope is preserved because overload
// resolution must try templates in that order (spec section 4.4).
func (st *SymbolTable) DefineFunc(name string, tpl *FuncTemplate) error {
	scope := st.top()
	bucket := scope.funcs
	if tpl.IsExtern {
		bucket = scope.externs
	}
	for _, existing := range bucket[name] {
		if sameSignature(existing, tpl) {
			if st.repl && st.atGlobalScope() {
				continue
			}
			return diag.New(diag.Redefinition, tpl.Proto.Loc,
				"function %q already defined with this signature in this scope", name)
		}
	}
	bucket[name] = append(bucket[name], tpl)
	return nil
}

// sameSignature reports whether a and b declare the same parameter type
// vector. An inferred (nil) slot is only considered equal to another
// inferred slot — it never collides with a concrete declared type — so
// that e.g. `function f(x)` and `function f(x: Int)` are treated as
// distinct, addable overloads.
func sameSignature(a, b *FuncTemplate) bool {
	if len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	for i := range a.ParamTypes {
		pa, pb := a.ParamTypes[i], b.ParamTypes[i]
		switch {
		case pa == nil && pb == nil:
			continue
		case pa == nil || pb == nil:
			return false
		case !pa.Equal(*pb):
			return false
		}
	}
	return true
}

// LookupFuncs returns every template declared under name, walking
// innermost scope first and, within a scope, in declaration order —
// user templates are tried before externs (spec section 4.4: primitive
// operators, then user templates, then externs).
func (st *SymbolTable) LookupFuncs(name string) []*FuncTemplate {
	scopes := st.scopesInnermostFirst()
	var out []*FuncTemplate
	for _, scope := range scopes {
		out = append(out, scope.funcs[name]...)
	}
	for _, scope := range scopes {
		out = append(out, scope.externs[name]...)
	}
	return out
}
