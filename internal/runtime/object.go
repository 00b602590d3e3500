package runtime

import "github.com/tqscript/tqscript/internal/value"

// Initializer constructs a blank instance of a registered class. Hosts
// supply one per class via RegisterClass; it is invoked during
// instantiation before the descriptor's field assignments are applied.
type Initializer func() *ConsoleObject

// ClassDescriptor is one registered console-object type: its name, its
// parent's name, a lazily-computed flattened ancestor vector ending at
// "ConsoleObject", and the initializer that builds new instances, per
// spec.md §3 "Console object" / §4.7.
type ClassDescriptor struct {
	Name       string
	ParentName string
	Init       Initializer

	ancestors []string // most-derived first, ending at "ConsoleObject"
}

// ConsoleObject is a script-visible object instance: a class name, tagged
// fields addressed by case-folded name, and parent/child composition
// links, per spec.md §3.
type ConsoleObject struct {
	ID    int32
	Class string
	Name  string

	fields   map[string]value.Value
	parents  []*ConsoleObject
	children []*ConsoleObject
}

// NewConsoleObject constructs a bare instance of className; RegisterClass
// initializers typically call this and then layer defaults on top.
func NewConsoleObject(className string) *ConsoleObject {
	return &ConsoleObject{Class: className, fields: make(map[string]value.Value)}
}

// fieldStorage adapts one (object, folded key) tagged field into a
// value.Storage, so a Subreference can hand back a value.MemoryRef that
// reads and writes straight through into the field map without needing
// the map's values to be individually addressable.
type fieldStorage struct {
	obj *ConsoleObject
	key string
}

func (s fieldStorage) Load() value.Value {
	v, ok := s.obj.fields[s.key]
	if !ok {
		return value.Integer(0)
	}
	return v
}

func (s fieldStorage) Store(v value.Value) { s.obj.fields[s.key] = v }

// FieldRef returns a write-through lvalue handle to a tagged field,
// allocating it as 0 on first reference (per spec.md §4.5's Subreference
// opcode semantics). key must already be case-folded by the caller.
func (o *ConsoleObject) FieldRef(key string) value.Value {
	if _, ok := o.fields[key]; !ok {
		o.fields[key] = value.Integer(0)
	}
	return value.MemoryRef(value.PrimitiveInteger, fieldStorage{obj: o, key: key})
}

// FieldValue reads a tagged field's current value without creating an
// lvalue handle.
func (o *ConsoleObject) FieldValue(key string) value.Value {
	if v, ok := o.fields[key]; ok {
		return v
	}
	return value.Integer(0)
}

func (o *ConsoleObject) addChild(child *ConsoleObject) {
	o.children = append(o.children, child)
	child.parents = append(child.parents, o)
}

func (o *ConsoleObject) unlinkFromParents() {
	for _, p := range o.parents {
		for i, c := range p.children {
			if c == o {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	o.parents = nil
}

// ObjectInstantiation is a tree node carrying the resolved type name,
// instance name, field assignments, and children accumulated on a
// frame's pending stack while PushObjectInstantiation/PushObjectField/
// PopObjectInstantiation execute, per spec.md §3 "Object instantiation
// descriptor".
type ObjectInstantiation struct {
	TypeName string
	Name     string
	// Parent is the `: ParentName` of the declaration header, if any; the
	// named object's fields are copied into the new instance before the
	// declaration's own field assignments are applied.
	Parent string
	// IsDatablock marks descriptors built by a `datablock` declaration,
	// which additionally rejects re-declaring an existing name without a
	// parent to inherit from.
	IsDatablock bool
	Fields      []FieldAssignment
	Children    []*ObjectInstantiation
}

// FieldAssignment is one resolved `name = value` (already array-name
// folded if the source used `name[i,j]`) inside an object/datablock body.
type FieldAssignment struct {
	Name  string
	Value value.Value
}

// ObjectRegistry owns the class descriptor table and the live console
// object graph: ID/name lookup, instantiation, and destruction, per
// spec.md §4.7.
type ObjectRegistry struct {
	strings interface{ Fold(string) string }

	classes map[string]*ClassDescriptor // keyed by folded class name
	nextID  int32
	byID    map[int32]*ConsoleObject
	byName  map[string]*ConsoleObject
}

// NewObjectRegistry creates an empty registry. fold is used to case-fold
// class and instance names the same way the rest of the interpreter does.
func NewObjectRegistry(fold interface{ Fold(string) string }) *ObjectRegistry {
	return &ObjectRegistry{
		strings: fold,
		classes: make(map[string]*ClassDescriptor),
		byID:    make(map[int32]*ConsoleObject),
		byName:  make(map[string]*ConsoleObject),
	}
}

// RegisterClass adds a new class descriptor and recomputes every
// descriptor's ancestor vector, per spec.md §4.7 ("After each new class is
// registered, the descriptor table is walked and all ancestor vectors are
// recomputed").
func (r *ObjectRegistry) RegisterClass(name, parentName string, init Initializer) {
	desc := &ClassDescriptor{Name: name, ParentName: parentName, Init: init}
	r.classes[r.strings.Fold(name)] = desc
	r.recomputeAncestors()
}

func (r *ObjectRegistry) recomputeAncestors() {
	for _, desc := range r.classes {
		var chain []string
		seen := make(map[string]bool)
		cur := desc
		for cur != nil {
			chain = append(chain, cur.Name)
			seen[r.strings.Fold(cur.Name)] = true
			if cur.ParentName == "" {
				break
			}
			parentKey := r.strings.Fold(cur.ParentName)
			if seen[parentKey] {
				break // guards against an accidental parent cycle
			}
			parent, ok := r.classes[parentKey]
			if !ok {
				chain = append(chain, cur.ParentName)
				break
			}
			cur = parent
		}
		if len(chain) == 0 || chain[len(chain)-1] != "ConsoleObject" {
			chain = append(chain, "ConsoleObject")
		}
		desc.ancestors = chain
	}
}

// ClassByName looks up a registered class descriptor by folded name.
func (r *ObjectRegistry) ClassByName(name string) (*ClassDescriptor, bool) {
	desc, ok := r.classes[r.strings.Fold(name)]
	return desc, ok
}

// Hierarchy returns className's flattened ancestor vector (most-derived
// first), used by bound-call resolution in §4.7.
func (r *ObjectRegistry) Hierarchy(className string) []string {
	desc, ok := r.ClassByName(className)
	if !ok {
		return nil
	}
	return desc.ancestors
}

// Instantiate materializes desc and its children depth-first: look up the
// class, invoke its initializer, copy the named parent object's fields if
// a `: Parent` was declared, apply the descriptor's own field assignments,
// register under a fresh monotonic ID (and under its name, if named),
// recurse into children, and attach each as a child of the new instance.
// Returns (nil, false) if desc's type name is unregistered, or for a
// datablock re-declaring an existing name with no parent, per spec.md
// §4.7's "bailing cleanly with a logged error if unknown" (the caller
// logs).
func (r *ObjectRegistry) Instantiate(desc *ObjectInstantiation) (*ConsoleObject, bool) {
	classDesc, ok := r.ClassByName(desc.TypeName)
	if !ok {
		return nil, false
	}
	if desc.IsDatablock && desc.Parent == "" && desc.Name != "" {
		if _, exists := r.byName[r.strings.Fold(desc.Name)]; exists {
			return nil, false
		}
	}
	var obj *ConsoleObject
	if classDesc.Init != nil {
		obj = classDesc.Init()
	}
	if obj == nil {
		obj = NewConsoleObject(desc.TypeName)
	}
	obj.Class = desc.TypeName
	if desc.Parent != "" {
		if parent, ok := r.ByName(desc.Parent); ok {
			for k, v := range parent.fields {
				obj.fields[k] = v
			}
		}
	}
	for _, fa := range desc.Fields {
		obj.fields[r.strings.Fold(fa.Name)] = fa.Value
	}

	r.nextID++
	obj.ID = r.nextID
	r.byID[obj.ID] = obj
	if desc.Name != "" {
		obj.Name = desc.Name
		r.byName[r.strings.Fold(desc.Name)] = obj
	}

	for _, childDesc := range desc.Children {
		child, ok := r.Instantiate(childDesc)
		if !ok {
			continue
		}
		obj.addChild(child)
	}
	return obj, true
}

// ByID looks up a live object by its registry ID.
func (r *ObjectRegistry) ByID(id int32) (*ConsoleObject, bool) {
	obj, ok := r.byID[id]
	return obj, ok
}

// ByName looks up a live object by its registered (folded) name.
func (r *ObjectRegistry) ByName(name string) (*ConsoleObject, bool) {
	obj, ok := r.byName[r.strings.Fold(name)]
	return obj, ok
}

// Resolve implements Value.toConsoleObject's contract (spec.md §4.1): try
// v as an integer ID first, then as a string name.
func (r *ObjectRegistry) Resolve(v value.Value) (*ConsoleObject, bool) {
	if obj, ok := r.ByID(v.ToInteger()); ok {
		return obj, true
	}
	return r.ByName(v.ToString())
}

// Destroy removes obj from both the ID and name indices and unlinks it
// from every parent that references it, per spec.md §5's scoped-release
// model for console objects.
func (r *ObjectRegistry) Destroy(obj *ConsoleObject) {
	delete(r.byID, obj.ID)
	if obj.Name != "" {
		delete(r.byName, r.strings.Fold(obj.Name))
	}
	obj.unlinkFromParents()
}
