package clusterstate

import (
	"github.com/cuemby/ariadne/pkg/idregistry"
	"github.com/cuemby/ariadne/pkg/log"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
)

// Cluster describes the orchestrated fleet as a whole — the single root
// node every PartOf edge ultimately points at (§6.1 cluster.json).
type Cluster struct {
	ID            types.ObjectIdentifier
	ServerURL     string
	ServerVersion string
}

// EdgeID is a stable handle for one edge within a ClusterState, used by
// the edge-kind index. It has no meaning across ClusterState instances.
type EdgeID int

// ClusterState is ariadne's canonical in-process representation of the
// object graph at one point in time. See the package doc for its
// concurrency posture.
type ClusterState struct {
	Cluster  Cluster
	registry *idregistry.Registry

	objects   map[idregistry.Handle]*types.GenericObject
	kindIndex map[ontology.ResourceKind][]idregistry.Handle

	edges          []types.GraphEdge // index == EdgeID; zero-value entries are tombstones
	edgeIndexOf    map[types.GraphEdge]EdgeID
	edgesBySource  map[idregistry.Handle][]EdgeID
	edgesByTarget  map[idregistry.Handle][]EdgeID
	edgesByKind    map[ontology.EdgeKind][]EdgeID
}

// New returns an empty ClusterState carrying the given Cluster descriptor.
func New(cluster Cluster) *ClusterState {
	return &ClusterState{
		Cluster:       cluster,
		registry:      idregistry.New(),
		objects:       make(map[idregistry.Handle]*types.GenericObject),
		kindIndex:     make(map[ontology.ResourceKind][]idregistry.Handle),
		edgeIndexOf:   make(map[types.GraphEdge]EdgeID),
		edgesBySource: make(map[idregistry.Handle][]EdgeID),
		edgesByTarget: make(map[idregistry.Handle][]EdgeID),
		edgesByKind:   make(map[ontology.EdgeKind][]EdgeID),
	}
}

// AddNode inserts obj if its UID is new, or overwrites the stored object
// in place if it already exists (modification). Returns the handle.
func (s *ClusterState) AddNode(obj types.GenericObject) idregistry.Handle {
	handle, _ := s.registry.AssignOrGet(obj.ID.UID)
	if _, present := s.objects[handle]; !present {
		s.kindIndex[obj.Kind] = append(s.kindIndex[obj.Kind], handle)
	}
	stored := obj
	s.objects[handle] = &stored
	return handle
}

// AddEdge looks up handles for both endpoints; if either is missing, the
// edge is dropped (with a warning) to preserve referential integrity
// (invariant 2). Returns true if the edge was added (or already present).
func (s *ClusterState) AddEdge(edge types.GraphEdge) bool {
	srcHandle, ok := s.registry.HandleOf(edge.SourceUID)
	if !ok {
		log.WithComponent("clusterstate").Warn().
			Str("source_uid", edge.SourceUID).Str("edge_kind", string(edge.EdgeKind)).
			Msg("dropping edge: source node not found")
		return false
	}
	tgtHandle, ok := s.registry.HandleOf(edge.TargetUID)
	if !ok {
		log.WithComponent("clusterstate").Warn().
			Str("target_uid", edge.TargetUID).Str("edge_kind", string(edge.EdgeKind)).
			Msg("dropping edge: target node not found")
		return false
	}

	if _, exists := s.edgeIndexOf[edge]; exists {
		return true
	}

	id := EdgeID(len(s.edges))
	s.edges = append(s.edges, edge)
	s.edgeIndexOf[edge] = id
	s.edgesBySource[srcHandle] = append(s.edgesBySource[srcHandle], id)
	s.edgesByTarget[tgtHandle] = append(s.edgesByTarget[tgtHandle], id)
	s.edgesByKind[edge.EdgeKind] = append(s.edgesByKind[edge.EdgeKind], id)
	return true
}

// NodeByUID returns the object stored for uid, if any.
func (s *ClusterState) NodeByUID(uid string) (*types.GenericObject, bool) {
	handle, ok := s.registry.HandleOf(uid)
	if !ok {
		return nil, false
	}
	return s.NodeByHandle(handle)
}

// NodeByHandle returns the object stored for handle, if any.
func (s *ClusterState) NodeByHandle(handle idregistry.Handle) (*types.GenericObject, bool) {
	obj, ok := s.objects[handle]
	return obj, ok
}

// HandleOf exposes the registry's UID→handle lookup to callers (notably
// the Cypher evaluator, which binds relationship patterns by handle
// identity) without exposing the registry itself.
func (s *ClusterState) HandleOf(uid string) (idregistry.Handle, bool) {
	return s.registry.HandleOf(uid)
}

// NodesByKind returns every object of the given kind, in insertion order.
func (s *ClusterState) NodesByKind(kind ontology.ResourceKind) []*types.GenericObject {
	handles := s.kindIndex[kind]
	out := make([]*types.GenericObject, 0, len(handles))
	for _, h := range handles {
		if obj, ok := s.objects[h]; ok {
			out = append(out, obj)
		}
	}
	return out
}

// IterNodes returns every object in the state, in handle-assignment
// order — the stable iteration order spec.md §3 (Supplemented) relies on
// for deterministic CLI rendering.
func (s *ClusterState) IterNodes() []*types.GenericObject {
	out := make([]*types.GenericObject, 0, s.registry.Len())
	for h := 0; h < s.registry.Len(); h++ {
		if obj, ok := s.objects[idregistry.Handle(h)]; ok {
			out = append(out, obj)
		}
	}
	return out
}

// IterEdges returns every live edge, in the order they were added.
func (s *ClusterState) IterEdges() []types.GraphEdge {
	out := make([]types.GraphEdge, 0, len(s.edges))
	for _, e := range s.edges {
		if _, live := s.edgeIndexOf[e]; live {
			out = append(out, e)
		}
	}
	return out
}

// EdgesByKind returns every live edge of the given kind.
func (s *ClusterState) EdgesByKind(kind ontology.EdgeKind) []types.GraphEdge {
	ids := s.edgesByKind[kind]
	out := make([]types.GraphEdge, 0, len(ids))
	for _, id := range ids {
		if int(id) < len(s.edges) {
			e := s.edges[id]
			if _, live := s.edgeIndexOf[e]; live {
				out = append(out, e)
			}
		}
	}
	return out
}

// EdgesFrom returns every live edge whose source is handle.
func (s *ClusterState) EdgesFrom(handle idregistry.Handle) []types.GraphEdge {
	return s.edgesAt(s.edgesBySource[handle])
}

// EdgesTo returns every live edge whose target is handle.
func (s *ClusterState) EdgesTo(handle idregistry.Handle) []types.GraphEdge {
	return s.edgesAt(s.edgesByTarget[handle])
}

func (s *ClusterState) edgesAt(ids []EdgeID) []types.GraphEdge {
	out := make([]types.GraphEdge, 0, len(ids))
	for _, id := range ids {
		if int(id) < len(s.edges) {
			e := s.edges[id]
			if _, live := s.edgeIndexOf[e]; live {
				out = append(out, e)
			}
		}
	}
	return out
}

// RemoveNode deletes uid and every edge incident to it.
func (s *ClusterState) RemoveNode(uid string) {
	handle, ok := s.registry.HandleOf(uid)
	if !ok {
		return
	}
	for _, e := range s.EdgesFrom(handle) {
		s.RemoveEdge(e)
	}
	for _, e := range s.EdgesTo(handle) {
		s.RemoveEdge(e)
	}
	if obj, ok := s.objects[handle]; ok {
		kind := obj.Kind
		s.kindIndex[kind] = removeHandle(s.kindIndex[kind], handle)
	}
	delete(s.objects, handle)
}

// RemoveEdge structurally removes edge; idempotent.
func (s *ClusterState) RemoveEdge(edge types.GraphEdge) {
	if id, ok := s.edgeIndexOf[edge]; ok {
		s.edges[id] = types.GraphEdge{}
		delete(s.edgeIndexOf, edge)
	}
}

func removeHandle(handles []idregistry.Handle, target idregistry.Handle) []idregistry.Handle {
	out := handles[:0]
	for _, h := range handles {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

// Describe summarizes node and edge counts by kind.
func (s *ClusterState) Describe() (nodesByKind map[ontology.ResourceKind]int, edgesByKind map[ontology.EdgeKind]int) {
	nodesByKind = make(map[ontology.ResourceKind]int)
	for kind, handles := range s.kindIndex {
		count := 0
		for _, h := range handles {
			if _, ok := s.objects[h]; ok {
				count++
			}
		}
		if count > 0 {
			nodesByKind[kind] = count
		}
	}

	edgesByKind = make(map[ontology.EdgeKind]int)
	for _, e := range s.IterEdges() {
		edgesByKind[e.EdgeKind]++
	}
	return nodesByKind, edgesByKind
}
