package torque

import (
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/tqscript/tqscript/internal/value"
)

// JSONTracer implements runtime.Tracer, building a structured JSON
// execution trace incrementally with tidwall/sjson.Set rather than
// marshaling a Go struct tree — every CallFunction/Return appends or fills
// in one entry under the top-level "calls" array. This backs
// `tqscript run --trace-json`, per SPEC_FULL.md's DOMAIN STACK row for
// tidwall/gjson+sjson+pretty.
type JSONTracer struct {
	mu    sync.Mutex
	doc   string
	depth int
	stack []int64
}

// NewJSONTracer constructs an empty tracer.
func NewJSONTracer() *JSONTracer {
	return &JSONTracer{doc: `{"calls":[]}`}
}

// OnCall implements runtime.Tracer.
func (t *JSONTracer) OnCall(pkg, namespace, name string, args []value.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := gjson.Get(t.doc, "calls.#").Int()
	path := fmt.Sprintf("calls.%d", idx)

	doc, _ := sjson.Set(t.doc, path+".package", pkg)
	doc, _ = sjson.Set(doc, path+".namespace", namespace)
	doc, _ = sjson.Set(doc, path+".name", name)
	doc, _ = sjson.Set(doc, path+".depth", t.depth)
	for i, a := range args {
		doc, _ = sjson.Set(doc, fmt.Sprintf("%s.args.%d", path, i), a.ToString())
	}
	t.doc = doc
	t.stack = append(t.stack, idx)
	t.depth++
}

// OnReturn implements runtime.Tracer.
func (t *JSONTracer) OnReturn(pkg, namespace, name string, result value.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.depth > 0 {
		t.depth--
	}
	if len(t.stack) == 0 {
		return
	}
	idx := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]

	path := fmt.Sprintf("calls.%d.result", idx)
	if doc, err := sjson.Set(t.doc, path, result.ToString()); err == nil {
		t.doc = doc
	}
}

// JSON renders the accumulated trace, pretty-printed via tidwall/pretty.
func (t *JSONTracer) JSON() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(pretty.Pretty([]byte(t.doc)))
}
