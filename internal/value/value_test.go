package value

import "testing"

func TestToIntegerParseFailureYieldsZero(t *testing.T) {
	if got := String("not a number").ToInteger(); got != 0 {
		t.Fatalf("ToInteger() = %d, want 0", got)
	}
}

func TestToFloatParseFailureYieldsZero(t *testing.T) {
	if got := String("nope").ToFloat(); got != 0 {
		t.Fatalf("ToFloat() = %v, want 0", got)
	}
}

func TestToBoolNonzeroIntegerSemantics(t *testing.T) {
	if Integer(0).ToBool() {
		t.Fatalf("Integer(0).ToBool() should be false")
	}
	if !Integer(5).ToBool() {
		t.Fatalf("Integer(5).ToBool() should be true")
	}
	if !String("3").ToBool() {
		t.Fatalf(`String("3").ToBool() should be true`)
	}
}

func TestAddNormalisesToFloat(t *testing.T) {
	sum := Add(Integer(2), Integer(3))
	if sum.Kind() != KindFloat {
		t.Fatalf("Add result kind = %v, want float", sum.Kind())
	}
	if sum.ToFloat() != 5 {
		t.Fatalf("Add(2,3) = %v, want 5", sum.ToFloat())
	}
}

func TestModNormalisesToInteger(t *testing.T) {
	m := Mod(Integer(7), Integer(3))
	if m.Kind() != KindInteger || m.ToInteger() != 1 {
		t.Fatalf("Mod(7,3) = %+v, want integer 1", m)
	}
}

func TestModByZeroIsZero(t *testing.T) {
	if got := Mod(Integer(7), Integer(0)).ToInteger(); got != 0 {
		t.Fatalf("Mod by zero = %d, want 0", got)
	}
}

func TestStringEqualityIsLexicographicOnToString(t *testing.T) {
	if StringEquals(Integer(1), String("1")).ToBool() != true {
		t.Fatalf("StringEquals(1, \"1\") should be true")
	}
}

func TestRefSetValueWritesThrough(t *testing.T) {
	cell := Integer(0)
	r := Ref(&cell)
	if !r.SetValue(Integer(42)) {
		t.Fatalf("SetValue through Ref failed")
	}
	if cell.ToInteger() != 42 {
		t.Fatalf("cell = %d, want 42", cell.ToInteger())
	}
}

func TestSetValueOnTemporarySucceedsInPlace(t *testing.T) {
	v := Integer(1)
	if !v.SetValue(Integer(2)) {
		t.Fatalf("SetValue on a plain Value should succeed in place")
	}
	if v.ToInteger() != 2 {
		t.Fatalf("v = %d, want 2", v.ToInteger())
	}
}

func TestSetValueOnNilRefFails(t *testing.T) {
	var r Value = Ref(nil)
	if r.SetValue(Integer(1)) {
		t.Fatalf("SetValue through a nil Ref should fail")
	}
}

func TestCopyingRefCopiesHandleNotReferent(t *testing.T) {
	cell := Integer(1)
	r := Ref(&cell)
	copied := r
	cell = Integer(99)
	if copied.GetReferencedValueCopy().ToInteger() != 99 {
		t.Fatalf("copied ref should still observe writes to the original cell")
	}
}

type fakeStorage struct{ v Value }

func (f *fakeStorage) Load() Value  { return f.v }
func (f *fakeStorage) Store(v Value) { f.v = v }

func TestMemoryRefReadsAndWritesThroughStorage(t *testing.T) {
	store := &fakeStorage{v: Integer(10)}
	mr := MemoryRef(PrimitiveInteger, store)
	if mr.ToInteger() != 10 {
		t.Fatalf("MemoryRef read = %d, want 10", mr.ToInteger())
	}
	mr.SetValue(Integer(20))
	if store.v.ToInteger() != 20 {
		t.Fatalf("MemoryRef write didn't reach storage: %d", store.v.ToInteger())
	}
}
