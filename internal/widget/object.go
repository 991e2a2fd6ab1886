// Package widget implements the canvas component hierarchy for go-canvas.
// This file implements the base generic object: parent/child linkage,
// extended attributes, and behavior-chain dispatch.
package widget

import (
	"log/slog"
)

// Object is the base generic component. Every widget kind wraps an Object
// and specializes it by replacing the installed behavior and attaching its
// own data through the extended-attributes slot.
type Object struct {
	parent   *Object
	children []*Object
	behavior Behavior
	ext      any
	logger   *slog.Logger
	valid    bool
}

// NewObject creates a base object under parent. A nil parent creates a
// root object. The logger is inherited from the parent; a root object
// logs through slog.Default until SetLogger is called.
func NewObject(parent *Object) *Object {
	o := &Object{
		parent: parent,
		valid:  true,
	}
	o.behavior = objectBehavior{}
	if parent != nil {
		parent.children = append(parent.children, o)
		o.logger = parent.logger
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Valid reports whether the object has not been deleted.
func (o *Object) Valid() bool {
	return o != nil && o.valid
}

// Parent returns the object's parent, or nil for a root object.
func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns the object's direct children.
func (o *Object) Children() []*Object {
	return o.children
}

// Behavior returns the installed behavior. Component constructors read
// this before installing their own behavior so the previous one can be
// injected as the base of the new one.
func (o *Object) Behavior() Behavior {
	return o.behavior
}

// SetBehavior replaces the installed behavior. The caller is responsible
// for delegating to the previously installed behavior.
func (o *Object) SetBehavior(b Behavior) {
	o.behavior = b
}

// SetExtendedAttr attaches per-instance auxiliary data that specializes
// the object's behavior. Each derived kind replaces the slot with its own
// component value.
func (o *Object) SetExtendedAttr(ext any) {
	o.ext = ext
}

// ExtendedAttr returns the attached auxiliary data, or nil.
func (o *Object) ExtendedAttr() any {
	return o.ext
}

// Logger returns the object's diagnostic logger. Never nil.
func (o *Object) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// SetLogger replaces the diagnostic logger for this object and all of its
// current children.
func (o *Object) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	o.logger = l
	for _, child := range o.children {
		child.SetLogger(l)
	}
}

// Signal dispatches sig through the object's behavior chain and returns
// whether the object survived it.
func (o *Object) Signal(sig Signal, param any) Result {
	if !o.Valid() || o.behavior == nil {
		return ResultInvalid
	}
	return o.behavior.HandleSignal(o, sig, param)
}

// Type runs SignalGetType through the behavior chain and returns the
// populated type lineage, base-most first.
func (o *Object) Type() []string {
	var tc TypeChain
	if o.Signal(SignalGetType, &tc) != ResultOK {
		return nil
	}
	return tc.Tags()
}

// Delete removes the object from the tree. Children are deleted first,
// then SignalCleanup runs through the behavior chain, then the object is
// detached from its parent and marked invalid. Externally owned memory
// referenced by the object is never freed.
func (o *Object) Delete() {
	if !o.Valid() {
		return
	}
	for len(o.children) > 0 {
		o.children[len(o.children)-1].Delete()
	}
	o.Signal(SignalCleanup, nil)
	if o.parent != nil {
		siblings := o.parent.children
		for i, sib := range siblings {
			if sib == o {
				o.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		o.parent = nil
	}
	o.valid = false
	o.ext = nil
}

// objectBehavior is the base of every behavior chain.
type objectBehavior struct{}

// TypeName returns the static type tag of the base object kind.
func (objectBehavior) TypeName() string { return "object" }

// HandleSignal implements the base object's signal handling. There is no
// base behavior to delegate to.
func (b objectBehavior) HandleSignal(obj *Object, sig Signal, param any) Result {
	switch sig {
	case SignalCleanup:
		// The object owns no resources beyond what Delete releases.
	case SignalGetType:
		if tc, ok := param.(*TypeChain); ok {
			tc.Append(b.TypeName())
		}
	}
	return ResultOK
}
