package diff

import (
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/types"
)

// ObjectDiff is the object-level delta between two sequences of objects
// of one kind, keyed by UID (spec.md §4.6).
type ObjectDiff struct {
	Added    []*types.GenericObject
	Removed  []*types.GenericObject
	Modified []*types.GenericObject
}

// IsEmpty reports whether every list is empty, in O(1).
func (d ObjectDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// DiffSlices groups current and previous by UID and classifies each
// current object as added (UID unseen in previous) or modified (UID
// seen, resource_version differs); any previous UID absent from current
// is removed. Two objects with equal (or both-absent) resource_version
// are unchanged and appear in neither list.
func DiffSlices(current, previous []*types.GenericObject) ObjectDiff {
	prevByUID := make(map[string]*types.GenericObject, len(previous))
	for _, obj := range previous {
		prevByUID[obj.ID.UID] = obj
	}

	var added, modified []*types.GenericObject
	currentUIDs := make(map[string]bool, len(current))
	for _, obj := range current {
		currentUIDs[obj.ID.UID] = true
		prev, ok := prevByUID[obj.ID.UID]
		if !ok {
			added = append(added, obj)
			continue
		}
		if prev.ID.ResourceVersion != obj.ID.ResourceVersion {
			modified = append(modified, obj)
		}
	}

	var removed []*types.GenericObject
	for _, obj := range previous {
		if !currentUIDs[obj.ID.UID] {
			removed = append(removed, obj)
		}
	}

	return ObjectDiff{Added: added, Removed: removed, Modified: modified}
}

// ClusterStateDiff is the state-level delta between two ClusterStates:
// every added/removed/modified node (across all kinds) plus a structural
// added/removed edge set. List order is unspecified; callers treat them
// as sets (spec.md §3.1).
type ClusterStateDiff struct {
	AddedNodes    []*types.GenericObject
	RemovedNodes  []*types.GenericObject
	ModifiedNodes []*types.GenericObject
	AddedEdges    []types.GraphEdge
	RemovedEdges  []types.GraphEdge
}

// IsEmpty reports whether every list is empty, in O(1).
func (d ClusterStateDiff) IsEmpty() bool {
	return len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 && len(d.ModifiedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// FromStates computes the full-state diff between current and previous,
// nodes via DiffSlices (ignoring kind, since UIDs are globally unique —
// invariant 1) and edges via structural set membership (GraphEdge is
// comparable over all five fields, spec.md §3.1).
func FromStates(current, previous *clusterstate.ClusterState) ClusterStateDiff {
	nodeDiff := DiffSlices(current.IterNodes(), previous.IterNodes())

	prevEdges := make(map[types.GraphEdge]bool)
	for _, e := range previous.IterEdges() {
		prevEdges[e] = true
	}
	currentEdges := make(map[types.GraphEdge]bool)
	var addedEdges []types.GraphEdge
	for _, e := range current.IterEdges() {
		currentEdges[e] = true
		if !prevEdges[e] {
			addedEdges = append(addedEdges, e)
		}
	}
	var removedEdges []types.GraphEdge
	for _, e := range previous.IterEdges() {
		if !currentEdges[e] {
			removedEdges = append(removedEdges, e)
		}
	}

	return ClusterStateDiff{
		AddedNodes:    nodeDiff.Added,
		RemovedNodes:  nodeDiff.Removed,
		ModifiedNodes: nodeDiff.Modified,
		AddedEdges:    addedEdges,
		RemovedEdges:  removedEdges,
	}
}
