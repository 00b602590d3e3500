package stringtable

import "testing"

func TestInternIsIdempotent(t *testing.T) {
	tab := New(false)
	a := tab.Intern("echo")
	b := tab.Intern("echo")
	if a != b {
		t.Fatalf("Intern not idempotent: %d != %d", a, b)
	}
}

func TestCaseInsensitiveFolding(t *testing.T) {
	tab := New(false)
	lower := tab.Intern("echo")
	upper := tab.Intern("ECHO")
	mixed := tab.Intern("Echo")
	if lower != upper || lower != mixed {
		t.Fatalf("case-insensitive table assigned different IDs: %d %d %d", lower, upper, mixed)
	}
}

func TestCaseSensitiveKeepsDistinctIDs(t *testing.T) {
	tab := New(true)
	lower := tab.Intern("echo")
	upper := tab.Intern("ECHO")
	if lower == upper {
		t.Fatalf("case-sensitive table folded distinct identifiers together")
	}
}

func TestResolveRoundTrip(t *testing.T) {
	tab := New(false)
	id := tab.Intern("$global::name")
	if got := tab.Resolve(id); got != "$global::name" {
		t.Fatalf("Resolve = %q, want %q", got, "$global::name")
	}
}

func TestResolveOutOfRange(t *testing.T) {
	tab := New(false)
	if got := tab.Resolve(999); got != "" {
		t.Fatalf("Resolve(999) = %q, want empty", got)
	}
}

func TestLookupMissing(t *testing.T) {
	tab := New(false)
	if _, ok := tab.Lookup("nope"); ok {
		t.Fatalf("Lookup found a string that was never interned")
	}
}

func TestIDsNeverReused(t *testing.T) {
	tab := New(false)
	first := tab.Intern("a")
	tab.Intern("b")
	tab.Intern("c")
	again := tab.Intern("a")
	if first != again {
		t.Fatalf("re-interning %q changed its ID", "a")
	}
	if tab.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tab.Len())
	}
}
