package runtime_test

import (
	"testing"

	"github.com/tqscript/tqscript/internal/runtime"
	"github.com/tqscript/tqscript/internal/stringtable"
	"github.com/tqscript/tqscript/internal/value"
)

func newObjectRegistry(caseSensitive bool) *runtime.ObjectRegistry {
	strings := stringtable.New(caseSensitive)
	return runtime.NewObjectRegistry(strings)
}

func TestClassHierarchyFlattensAncestorsEndingAtConsoleObject(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("ConsoleObject", "", nil)
	reg.RegisterClass("SimObject", "ConsoleObject", nil)
	reg.RegisterClass("GameBase", "SimObject", nil)
	reg.RegisterClass("Player", "GameBase", nil)

	got := reg.Hierarchy("Player")
	want := []string{"Player", "GameBase", "SimObject", "ConsoleObject"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestInstantiateUnknownTypeFailsCleanly(t *testing.T) {
	reg := newObjectRegistry(true)
	_, ok := reg.Instantiate(&runtime.ObjectInstantiation{TypeName: "Nope"})
	if ok {
		t.Fatal("expected instantiation of an unregistered type to fail")
	}
}

func TestInstantiateAppliesFieldsAndRegistersByIDAndName(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("SimObject", "", nil)

	desc := &runtime.ObjectInstantiation{
		TypeName: "SimObject",
		Name:     "MyObj",
		Fields:   []runtime.FieldAssignment{{Name: "hp", Value: value.Integer(100)}},
	}
	obj, ok := reg.Instantiate(desc)
	if !ok {
		t.Fatal("expected instantiation to succeed")
	}
	if obj.FieldValue("hp").ToInteger() != 100 {
		t.Fatalf("expected field hp == 100, got %d", obj.FieldValue("hp").ToInteger())
	}
	if byID, ok := reg.ByID(obj.ID); !ok || byID != obj {
		t.Fatal("expected object to be resolvable by its assigned ID")
	}
	if byName, ok := reg.ByName("MyObj"); !ok || byName != obj {
		t.Fatal("expected object to be resolvable by its registered name")
	}
}

func TestInstantiateNestedChildrenAreLinked(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("SimGroup", "", nil)

	desc := &runtime.ObjectInstantiation{
		TypeName: "SimGroup",
		Name:     "Parent",
		Children: []*runtime.ObjectInstantiation{
			{TypeName: "SimGroup", Name: "Child"},
		},
	}
	parent, ok := reg.Instantiate(desc)
	if !ok {
		t.Fatal("expected parent instantiation to succeed")
	}
	child, ok := reg.ByName("Child")
	if !ok {
		t.Fatal("expected child to be registered by name")
	}
	if child.ID == parent.ID {
		t.Fatal("expected child and parent to get distinct monotonic IDs")
	}
}

func TestInstantiateCopiesParentObjectFields(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("ItemData", "", nil)

	_, ok := reg.Instantiate(&runtime.ObjectInstantiation{
		TypeName: "ItemData",
		Name:     "Weapon",
		Fields: []runtime.FieldAssignment{
			{Name: "damage", Value: value.Integer(5)},
			{Name: "weight", Value: value.Integer(3)},
		},
	})
	if !ok {
		t.Fatal("expected base instantiation to succeed")
	}

	child, ok := reg.Instantiate(&runtime.ObjectInstantiation{
		TypeName: "ItemData",
		Name:     "Gun",
		Parent:   "Weapon",
		Fields:   []runtime.FieldAssignment{{Name: "damage", Value: value.Integer(10)}},
	})
	if !ok {
		t.Fatal("expected derived instantiation to succeed")
	}
	if child.FieldValue("damage").ToInteger() != 10 {
		t.Fatalf("expected own field to override inherited, got %d", child.FieldValue("damage").ToInteger())
	}
	if child.FieldValue("weight").ToInteger() != 3 {
		t.Fatalf("expected weight inherited from parent, got %d", child.FieldValue("weight").ToInteger())
	}
}

func TestDatablockRedeclarationWithoutParentIsRejected(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("ItemData", "", nil)

	first := &runtime.ObjectInstantiation{TypeName: "ItemData", Name: "Gun", IsDatablock: true}
	if _, ok := reg.Instantiate(first); !ok {
		t.Fatal("expected first datablock declaration to succeed")
	}
	if _, ok := reg.Instantiate(first); ok {
		t.Fatal("expected re-declaring datablock Gun without a parent to fail")
	}
	withParent := &runtime.ObjectInstantiation{TypeName: "ItemData", Name: "Gun", Parent: "Gun", IsDatablock: true}
	if _, ok := reg.Instantiate(withParent); !ok {
		t.Fatal("expected re-declaring datablock Gun with a parent to succeed")
	}
}

func TestObjectIDsNeverReused(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("SimObject", "", nil)

	first, _ := reg.Instantiate(&runtime.ObjectInstantiation{TypeName: "SimObject", Name: "A"})
	reg.Destroy(first)
	second, _ := reg.Instantiate(&runtime.ObjectInstantiation{TypeName: "SimObject", Name: "A"})
	if second.ID == first.ID {
		t.Fatalf("expected a fresh ID after destruction, got reused ID %d", first.ID)
	}
	if _, ok := reg.ByID(first.ID); ok {
		t.Fatal("expected destroyed object to no longer resolve by its old ID")
	}
}

func TestResolveTriesIntegerIDThenStringName(t *testing.T) {
	reg := newObjectRegistry(true)
	reg.RegisterClass("SimObject", "", nil)
	obj, _ := reg.Instantiate(&runtime.ObjectInstantiation{TypeName: "SimObject", Name: "Target"})

	if got, ok := reg.Resolve(value.Integer(obj.ID)); !ok || got != obj {
		t.Fatal("expected Resolve to find the object by its integer ID")
	}
	if got, ok := reg.Resolve(value.String("Target")); !ok || got != obj {
		t.Fatal("expected Resolve to fall back to resolving by name")
	}
}
