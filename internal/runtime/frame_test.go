package runtime_test

import (
	"testing"

	"github.com/tqscript/tqscript/internal/runtime"
	"github.com/tqscript/tqscript/internal/value"
)

func TestFramePopNReturnsValuesInPushOrder(t *testing.T) {
	f := runtime.NewFrame(nil)
	f.Push(value.Integer(1))
	f.Push(value.Integer(2))
	f.Push(value.Integer(3))

	got := f.PopN(3)
	want := []int32{1, 2, 3}
	for i, w := range want {
		if got[i].ToInteger() != w {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if f.Height() != 0 {
		t.Fatalf("expected empty stack after popping everything pushed, got height %d", f.Height())
	}
}

func TestFrameRegisterCellSurvivesGrowth(t *testing.T) {
	f := runtime.NewFrame(nil)
	cell := f.Register(0)
	*cell = value.Integer(42)

	// Force the backing slice to grow well past its original allocation.
	for i := int32(1); i < 64; i++ {
		f.Register(i)
	}

	if f.Register(0).ToInteger() != 42 {
		t.Fatal("expected register 0's value to survive register-file growth")
	}
	if f.Register(0) != cell {
		t.Fatal("expected the same *Value cell to be returned after growth (Ref stability invariant)")
	}
}

func TestFramePendingDescriptorStackNesting(t *testing.T) {
	f := runtime.NewFrame(nil)
	if f.PendingDepth() != 0 {
		t.Fatalf("expected empty pending stack initially, got depth %d", f.PendingDepth())
	}
	outer := &runtime.ObjectInstantiation{TypeName: "Outer"}
	inner := &runtime.ObjectInstantiation{TypeName: "Inner"}
	f.PushPending(outer)
	f.PushPending(inner)
	if f.PendingDepth() != 2 {
		t.Fatalf("expected depth 2, got %d", f.PendingDepth())
	}
	if f.TopPending() != inner {
		t.Fatal("expected the most recently pushed descriptor on top")
	}
	if popped := f.PopPending(); popped != inner {
		t.Fatal("expected PopPending to return the inner descriptor first")
	}
	if f.TopPending() != outer {
		t.Fatal("expected outer descriptor exposed after inner is popped")
	}
}
