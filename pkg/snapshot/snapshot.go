package snapshot

import (
	"context"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
)

// ObservedSnapshot is an immutable view of every watched object at one
// point in time: a cluster descriptor plus, per observed ResourceKind,
// the objects of that kind (spec.md §3.1, §4.4). Only directly-observed
// kinds appear here — logical kinds (ontology.IsLogical) are derived by
// pkg/resolver from these.
type ObservedSnapshot struct {
	Cluster clusterstate.Cluster
	Objects map[ontology.ResourceKind][]*types.GenericObject

	// Unreadable marks kinds the observer could not list (missing
	// list/watch permission, or a per-kind timeout). Such a kind is
	// present in Objects as an empty slice, not absent, so resolvers and
	// callers can distinguish "genuinely empty" from "could not read" if
	// they care to; most callers treat both the same way (spec.md §4.4).
	Unreadable map[ontology.ResourceKind]bool
}

// NewEmpty returns a snapshot with an empty object set for every
// observable (non-logical) kind, ready to be populated.
func NewEmpty(cluster clusterstate.Cluster) *ObservedSnapshot {
	objects := make(map[ontology.ResourceKind][]*types.GenericObject)
	for _, kind := range ontology.AllKinds {
		if ontology.IsLogical(kind) {
			continue
		}
		objects[kind] = nil
	}
	return &ObservedSnapshot{Cluster: cluster, Objects: objects}
}

// KindObjects returns the objects observed for kind, or nil if kind was
// never populated (including logical kinds, which this package never
// observes).
func (s *ObservedSnapshot) KindObjects(kind ontology.ResourceKind) []*types.GenericObject {
	if s == nil {
		return nil
	}
	return s.Objects[kind]
}

// IsUnreadable reports whether kind could not be listed during this
// observation cycle.
func (s *ObservedSnapshot) IsUnreadable(kind ontology.ResourceKind) bool {
	return s != nil && s.Unreadable[kind]
}

// All returns every observed object across every kind, in AllKinds order,
// for callers (pkg/resolver, DirectoryObserver's replay summary, the CLI)
// that don't care about per-kind grouping.
func (s *ObservedSnapshot) All() []*types.GenericObject {
	if s == nil {
		return nil
	}
	var out []*types.GenericObject
	for _, kind := range ontology.AllKinds {
		out = append(out, s.Objects[kind]...)
	}
	return out
}

// Observer produces an ObservedSnapshot, either from a live cluster or a
// replay source (spec.md §4.4). Observe blocks until the snapshot is
// ready (every kind either listed or declared unreadable) or ctx is
// cancelled.
type Observer interface {
	Observe(ctx context.Context) (*ObservedSnapshot, error)
}
