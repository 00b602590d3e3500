package torque

import (
	"strings"

	"github.com/tqscript/tqscript/internal/runtime"
	"github.com/tqscript/tqscript/internal/value"
)

// registerBuiltins wires the handful of native functions SPEC_FULL.md's
// restored-features list adds: echo/error/warn (feature 3), exec (feature
// 4), and activatePackage/deactivatePackage (feature 5). These are the
// only built-ins this interpreter ships; the rest of TorqueScript's
// library is explicitly out of scope (spec.md Non-goals).
func registerBuiltins(it *Interpreter) {
	it.RegisterNative("echo", builtinEcho)
	it.RegisterNative("error", builtinError)
	it.RegisterNative("warn", builtinWarn)
	it.RegisterNative("exec", it.builtinExec)
	it.RegisterNative("activatePackage", it.builtinActivatePackage)
	it.RegisterNative("deactivatePackage", it.builtinDeactivatePackage)
}

func joinArgs(args []value.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.ToString()
	}
	return strings.Join(parts, " ")
}

// builtinEcho writes a plain informational line, grounded on
// source/libraries/core.cpp's `echo` per SPEC_FULL.md restored feature 3.
func builtinEcho(state *runtime.State, this value.Value, args []value.Value) value.Value {
	if state.Platform != nil {
		state.Platform.Console().PrintLn(joinArgs(args))
	}
	return value.Integer(0)
}

// builtinError writes through the platform console prefixed the same way
// internal/runtime.State.logError formats a runtime error.
func builtinError(state *runtime.State, this value.Value, args []value.Value) value.Value {
	if state.Platform != nil {
		state.Platform.Console().PrintLn("*** Error: " + joinArgs(args))
	}
	return value.Integer(0)
}

// builtinWarn writes through the platform console prefixed the same way
// internal/runtime.State.logWarning formats a runtime warning.
func builtinWarn(state *runtime.State, this value.Value, args []value.Value) value.Value {
	if state.Platform != nil {
		state.Platform.Console().PrintLn("Warning: " + joinArgs(args))
	}
	return value.Integer(0)
}

// builtinExec implements `exec("path")`: the one allowed upward call from
// the VM back into the compiler (spec.md §1), per SPEC_FULL.md restored
// feature 4.
func (it *Interpreter) builtinExec(state *runtime.State, this value.Value, args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Integer(0)
	}
	path := args[0].ToString()
	result, err := it.execFile(path)
	if err != nil {
		if state.Platform != nil {
			state.Platform.Console().PrintLn("*** Error: exec: " + err.Error())
		}
		return value.Integer(0)
	}
	return result
}

// builtinActivatePackage/builtinDeactivatePackage expose the function
// registry's package-stack operations to script, per SPEC_FULL.md restored
// feature 5.
func (it *Interpreter) builtinActivatePackage(state *runtime.State, this value.Value, args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Integer(0)
	}
	state.Functions.Activate(args[0].ToString())
	return value.Integer(1)
}

func (it *Interpreter) builtinDeactivatePackage(state *runtime.State, this value.Value, args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Integer(0)
	}
	state.Functions.Deactivate(args[0].ToString())
	return value.Integer(1)
}
