// Package widget implements the canvas component hierarchy for go-canvas.
// This file defines the signal types and the behavior interface used to
// dispatch lifecycle events through a component's behavior chain.
package widget

// Signal identifies an event dispatched through a component's behavior chain.
type Signal uint8

const (
	// SignalCleanup is sent when a component is being deleted. Handlers
	// release component-owned resources; externally owned memory (such as
	// a canvas pixel buffer) is never freed.
	SignalCleanup Signal = iota
	// SignalGetType asks the chain to report the component's type lineage.
	// The param is a *TypeChain; each handler appends its own type tag
	// after delegating to its base.
	SignalGetType
	// SignalSourceChanged notifies that an image component's pixel source
	// was replaced or its descriptor updated.
	SignalSourceChanged
	// SignalStyleChanged notifies that a component's style was replaced
	// and any cached presentation state should be refreshed.
	SignalStyleChanged
)

// String returns a human-readable signal name.
func (s Signal) String() string {
	switch s {
	case SignalCleanup:
		return "cleanup"
	case SignalGetType:
		return "get-type"
	case SignalSourceChanged:
		return "source-changed"
	case SignalStyleChanged:
		return "style-changed"
	default:
		return "unknown"
	}
}

// Result reports whether an object survived a signal.
type Result uint8

const (
	// ResultOK means the object is still valid after handling the signal.
	ResultOK Result = iota
	// ResultInvalid means the object was deleted while handling the signal.
	// Handlers must propagate this immediately and do no further work.
	ResultInvalid
)

// Behavior handles signals for one component kind. Derived behaviors hold
// their base behavior as an explicit field injected at construction and
// delegate to it before doing kind-specific work, so the chain runs
// base-most handler first. TypeName is the kind's static type tag.
type Behavior interface {
	HandleSignal(obj *Object, sig Signal, param any) Result
	TypeName() string
}

// MaxTypeDepth is the fixed capacity of a TypeChain. Component lineages
// deeper than this are truncated, not rejected.
const MaxTypeDepth = 8

// TypeChain is the fixed-capacity, ordered list of type tags reported by
// SignalGetType. Tags are appended base-most first, so the most derived
// kind occupies the last populated slot.
type TypeChain struct {
	tags [MaxTypeDepth]string
}

// Append places tag into the first unset slot. When all slots are
// occupied the tag is silently dropped.
func (tc *TypeChain) Append(tag string) {
	for i := range tc.tags {
		if tc.tags[i] == "" {
			tc.tags[i] = tag
			return
		}
	}
}

// Tags returns the populated prefix of the chain, base-most first.
func (tc *TypeChain) Tags() []string {
	n := 0
	for n < len(tc.tags) && tc.tags[n] != "" {
		n++
	}
	return tc.tags[:n:n]
}

// Leaf returns the most derived type tag, or "" for an empty chain.
func (tc *TypeChain) Leaf() string {
	tags := tc.Tags()
	if len(tags) == 0 {
		return ""
	}
	return tags[len(tags)-1]
}
