package runtime

import (
	"fmt"

	"github.com/tqscript/tqscript/internal/bytecode"
	"github.com/tqscript/tqscript/internal/stringtable"
	"github.com/tqscript/tqscript/internal/value"
	"github.com/tqscript/tqscript/pkg/platform"
)

// Tracer receives a notification for every script-function call and
// return the VM makes, independent of CallFunction's normal success/
// failure path. pkg/torque's JSON execution trace implements this.
type Tracer interface {
	OnCall(pkg, namespace, name string, args []value.Value)
	OnReturn(pkg, namespace, name string, result value.Value)
}

// State is the interpreter's single mutable runtime: the shared string
// table, global variables, the function registry/package stack, the
// console object graph, and the host platform, per spec.md §5
// ("Shared resources within one interpreter ... All are mutated only
// from the single execution thread; no locking is required").
type State struct {
	Strings   *stringtable.Table
	Globals   map[stringtable.ID]*value.Value
	Functions *Registry
	Objects   *ObjectRegistry
	Platform  platform.Platform

	// MaxRecursionDepth caps call-frame nesting; 0 means unbounded, per
	// spec.md §4.5's recursion guard.
	MaxRecursionDepth int32

	// Exec compiles and runs a nested file against this same State;
	// pkg/torque wires it to the same file loader its `exec` built-in
	// (SPEC_FULL.md item 4) calls directly, so internal/runtime never needs
	// to import the parser/compiler packages itself. Nothing inside
	// internal/runtime calls it.
	Exec func(state *State, path string) (value.Value, error)

	Trace Tracer

	frames []*Frame
}

// NewState creates a ready-to-use State. caseSensitive controls the
// shared string table's folding mode (spec.md §3).
func NewState(plat platform.Platform, maxRecursionDepth int32, caseSensitive bool) *State {
	strings := stringtable.New(caseSensitive)
	return &State{
		Strings:           strings,
		Globals:           make(map[stringtable.ID]*value.Value),
		Functions:         NewRegistry(strings),
		Objects:           NewObjectRegistry(strings),
		Platform:          plat,
		MaxRecursionDepth: maxRecursionDepth,
	}
}

// Global returns a write-through handle to a global variable, allocating
// it as 0 on first reference.
func (s *State) Global(name string) *value.Value {
	return s.GlobalByID(s.Strings.Intern(name))
}

// GlobalByID returns a write-through handle to the global interned under
// id, allocating it as 0 on first reference. The PushGlobalReference
// opcode's operand is already an interned stringtable.ID (see
// Compiler.globalID), so the VM calls this directly instead of
// round-tripping through a name.
func (s *State) GlobalByID(id stringtable.ID) *value.Value {
	cell, ok := s.Globals[id]
	if !ok {
		cell = new(value.Value)
		*cell = value.Integer(0)
		s.Globals[id] = cell
	}
	return cell
}

// SetGlobal sets a global by name, for the host embedding API.
func (s *State) SetGlobal(name string, v value.Value) { *s.Global(name) = v }

// GetGlobal reads a global by name, for the host embedding API.
func (s *State) GetGlobal(name string) value.Value { return s.Global(name).Deref() }

// logWarning and logError route non-fatal diagnostics through the
// platform console, per spec.md §4.8/§7: "runtime errors ... log through
// the platform and substitute 0."
func (s *State) logWarning(format string, args ...any) {
	if s.Platform == nil {
		return
	}
	s.Platform.Console().PrintLn("Warning: " + fmt.Sprintf(format, args...))
}

func (s *State) logError(format string, args ...any) {
	if s.Platform == nil {
		return
	}
	s.Platform.Console().PrintLn("*** Error: " + fmt.Sprintf(format, args...))
}

// RegisterNative adds a host-supplied native function to the registry.
func (s *State) RegisterNative(pkgName, namespace, name string, fn NativeFunc) {
	s.Functions.Register(&FunctionValue{
		Package: pkgName, Namespace: namespace, Name: name, Native: fn,
	})
}

// RegisterClass adds a host-supplied console object type.
func (s *State) RegisterClass(name, parentName string, init Initializer) {
	s.Objects.RegisterClass(name, parentName, init)
}

// RegisterFunction publishes one CodeBlock-declared function into the live
// registry, as a standalone function table of its own; used by hosts that
// hand-build a *bytecode.Function outside of Execute. The RegisterFunction
// opcode itself calls registerFunctionFrom instead, so a function declared
// mid-body keeps the table it was compiled against (see Frame.Functions).
func (s *State) RegisterFunction(fn *bytecode.Function) {
	s.registerFunctionFrom(fn, nil)
}

func (s *State) registerFunctionFrom(fn *bytecode.Function, functions []*bytecode.Function) {
	s.Functions.Register(&FunctionValue{
		Package:   fn.Package,
		Namespace: fn.Namespace,
		Name:      fn.Name,
		Params:    fn.Params,
		Body:      fn.Body,
		ThisReg:   fn.ThisReg,
		Functions: functions,
	})
}

// Execute runs a compiled CodeBlock's top-level code against this State,
// publishing any function declarations it encounters. It returns the value
// of the first Return instruction the top-level code executes (as in the
// sequence Evaluate compiles), or 0 when the code runs off its end.
func (s *State) Execute(cb *bytecode.CodeBlock) (value.Value, error) {
	return s.run(cb.Code, cb.Functions, nil, value.Value{}, false, nil)
}
