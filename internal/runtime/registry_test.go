package runtime_test

import (
	"testing"

	"github.com/tqscript/tqscript/internal/runtime"
	"github.com/tqscript/tqscript/internal/stringtable"
)

func TestRegistryActivationMovesToBackAndReactivationReorders(t *testing.T) {
	strings := stringtable.New(true)
	reg := runtime.NewRegistry(strings)

	reg.Register(&runtime.FunctionValue{Package: "", Name: "f"})
	reg.Register(&runtime.FunctionValue{Package: "P1", Name: "f"})
	reg.Register(&runtime.FunctionValue{Package: "P2", Name: "f"})

	fn, ok := reg.Resolve("", "f")
	if !ok || fn.Package != "" {
		t.Fatalf("expected root package's f before any activation, got %+v (ok=%v)", fn, ok)
	}

	reg.Activate("P1")
	fn, ok = reg.Resolve("", "f")
	if !ok || fn.Package != "P1" {
		t.Fatalf("expected P1's f after activating P1, got %+v", fn)
	}

	reg.Activate("P2")
	fn, ok = reg.Resolve("", "f")
	if !ok || fn.Package != "P2" {
		t.Fatalf("expected P2's f after activating P2, got %+v", fn)
	}

	reg.Deactivate("P2")
	fn, ok = reg.Resolve("", "f")
	if !ok || fn.Package != "P1" {
		t.Fatalf("expected P1's f restored after deactivating P2, got %+v", fn)
	}

	reg.Activate("P2")
	fn, ok = reg.Resolve("", "f")
	if !ok || fn.Package != "P2" {
		t.Fatalf("expected P2's f again after reactivating, got %+v", fn)
	}
}

func TestRegistryResolveParentWalksBackFromOwningPackage(t *testing.T) {
	strings := stringtable.New(true)
	reg := runtime.NewRegistry(strings)

	reg.Register(&runtime.FunctionValue{Package: "", Name: "f"})
	reg.Register(&runtime.FunctionValue{Package: "P1", Name: "f"})
	reg.Register(&runtime.FunctionValue{Package: "P2", Name: "f"})
	reg.Activate("P1")
	reg.Activate("P2")

	fn, ok := reg.ResolveParent("P2", "", "f")
	if !ok || fn.Package != "P1" {
		t.Fatalf("expected parent:: from P2 to find P1's f, got %+v", fn)
	}

	fn, ok = reg.ResolveParent("P1", "", "f")
	if !ok || fn.Package != "" {
		t.Fatalf("expected parent:: from P1 to find the root f, got %+v", fn)
	}

	_, ok = reg.ResolveParent("", "", "f")
	if ok {
		t.Fatalf("expected no match walking past the root package")
	}
}

func TestRegistryCaseInsensitiveLookup(t *testing.T) {
	strings := stringtable.New(false)
	reg := runtime.NewRegistry(strings)
	reg.Register(&runtime.FunctionValue{Package: "", Namespace: "NS", Name: "Echo"})

	if _, ok := reg.Resolve("ns", "ECHO"); !ok {
		t.Fatal("expected case-insensitive match")
	}
}
