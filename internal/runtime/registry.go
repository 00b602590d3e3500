package runtime

import (
	"github.com/tqscript/tqscript/internal/bytecode"
	"github.com/tqscript/tqscript/internal/stringtable"
	"github.com/tqscript/tqscript/internal/value"
)

// NativeFunc is a host-registered built-in. this is the zero Value
// (Kind()==value.KindInteger, 0) for an unbound call. args is left-to-right
// in call order; the callback returns the single value CallFunction/
// CallBoundFunction pushes back.
type NativeFunc func(state *State, this value.Value, args []value.Value) value.Value

// FunctionValue is one callable entry in the registry: either a script
// function (Body set) or a native function (Native set), per spec.md §3
// "Function" — "two variants ... both implement the same invocation
// contract."
type FunctionValue struct {
	Package   string
	Namespace string
	Name      string
	Params    []string
	Body      bytecode.InstructionSequence
	Native    NativeFunc

	// ThisReg mirrors bytecode.Function.ThisReg: the register `%this` was
	// allocated to, or -1 if the body never references it.
	ThisReg int32

	// Functions is the declared-function table of the CodeBlock this
	// function was compiled as part of, carried forward so a (practically
	// never emitted, but legal) nested RegisterFunction inside this body
	// resolves against the same index space it was compiled against.
	Functions []*bytecode.Function
}

// namespaceTable maps (namespace, name), both folded string-table IDs, to
// the function declared under them within one package.
type namespaceTable map[stringtable.ID]map[stringtable.ID]*FunctionValue

// pkg is one entry in the function registry's package stack.
type pkg struct {
	name   string
	active bool
	table  namespaceTable
}

// Registry is the ordered package stack spec.md §3 describes: package ""
// exists at index 0, is permanently active, and holds every function
// declared outside an explicit `package P { ... }` block. Lookup walks
// back-to-front (highest precedence last), skipping inactive packages.
type Registry struct {
	strings  *stringtable.Table
	packages []*pkg
	byName   map[string]*pkg
}

// NewRegistry creates a Registry with the permanent, always-active root
// package "" at index 0.
func NewRegistry(strings *stringtable.Table) *Registry {
	root := &pkg{name: "", active: true, table: make(namespaceTable)}
	return &Registry{
		strings:  strings,
		packages: []*pkg{root},
		byName:   map[string]*pkg{"": root},
	}
}

func (r *Registry) packageNamed(name string) *pkg {
	key := r.strings.Fold(name)
	if p, ok := r.byName[key]; ok {
		return p
	}
	p := &pkg{name: name, active: false, table: make(namespaceTable)}
	r.byName[key] = p
	r.packages = append(r.packages, p)
	return p
}

// Register publishes fn into its declared package's namespace table,
// creating the package (inactive, per spec.md's glossary: "a named,
// toggleable group ... whose activation order determines precedence") if
// this is its first function.
func (r *Registry) Register(fn *FunctionValue) {
	p := r.packageNamed(fn.Package)
	nsID := r.strings.Intern(fn.Namespace)
	nameID := r.strings.Intern(fn.Name)
	names, ok := p.table[nsID]
	if !ok {
		names = make(map[stringtable.ID]*FunctionValue)
		p.table[nsID] = names
	}
	names[nameID] = fn
}

// indexOf returns pkgName's current position in the precedence sequence,
// or -1 if it has never been registered/activated.
func (r *Registry) indexOf(pkgName string) int {
	key := r.strings.Fold(pkgName)
	target, ok := r.byName[key]
	if !ok {
		return -1
	}
	for i, p := range r.packages {
		if p == target {
			return i
		}
	}
	return -1
}

// Activate moves pkgName to the back of the precedence sequence (highest
// precedence) and marks it active, creating it first if this is the first
// mention of that package name. Per spec.md §8's testable property,
// re-activating an already-active package still moves it to the back.
func (r *Registry) Activate(pkgName string) {
	p := r.packageNamed(pkgName)
	for i, q := range r.packages {
		if q == p {
			r.packages = append(r.packages[:i], r.packages[i+1:]...)
			break
		}
	}
	p.active = true
	r.packages = append(r.packages, p)
}

// Deactivate marks pkgName inactive without moving it; an inactive
// package's functions are skipped by Resolve but retain their position
// for the next Activate call.
func (r *Registry) Deactivate(pkgName string) {
	key := r.strings.Fold(pkgName)
	if p, ok := r.byName[key]; ok {
		p.active = false
	}
}

func (r *Registry) lookupIn(p *pkg, namespace, name string) (*FunctionValue, bool) {
	nsID, ok := r.strings.Lookup(namespace)
	if !ok {
		return nil, false
	}
	names, ok := p.table[nsID]
	if !ok {
		return nil, false
	}
	nameID, ok := r.strings.Lookup(name)
	if !ok {
		return nil, false
	}
	fn, ok := names[nameID]
	return fn, ok
}

// Resolve walks the package stack back-to-front (highest precedence
// first), skipping inactive packages, and returns the first
// (namespace, name) match, per spec.md §4.6.
func (r *Registry) Resolve(namespace, name string) (*FunctionValue, bool) {
	for i := len(r.packages) - 1; i >= 0; i-- {
		p := r.packages[i]
		if !p.active {
			continue
		}
		if fn, ok := r.lookupIn(p, namespace, name); ok {
			return fn, true
		}
	}
	return nil, false
}

// ResolveParent implements `parent::name`: continue the precedence search
// for (namespace, name) starting just below fromPackage's position,
// per spec.md §4.6 ("walk the registry from the current function's
// owning package backwards"). Returns false if fromPackage cannot be
// located (should not happen for a function actually being executed) or
// no further match exists.
func (r *Registry) ResolveParent(fromPackage, namespace, name string) (*FunctionValue, bool) {
	idx := r.indexOf(fromPackage)
	if idx < 0 {
		return nil, false
	}
	for i := idx - 1; i >= 0; i-- {
		p := r.packages[i]
		if !p.active {
			continue
		}
		if fn, ok := r.lookupIn(p, namespace, name); ok {
			return fn, true
		}
	}
	return nil, false
}
