package ontology

// Triple is one permitted (source kind, edge kind, target kind) entry in
// the schema table.
type Triple struct {
	Source ResourceKind
	Edge   EdgeKind
	Target ResourceKind
}

// namespacedKinds are scoped to a Namespace and receive an implicit
// BelongsTo edge to it. Logical children inherit the namespace scope of
// the object they are derived from.
var namespacedKinds = map[ResourceKind]bool{
	KindPod:                   true,
	KindContainer:             true,
	KindDeployment:            true,
	KindStatefulSet:           true,
	KindReplicaSet:            true,
	KindDaemonSet:             true,
	KindJob:                   true,
	KindIngress:               true,
	KindIngressServiceBackend: true,
	KindService:               true,
	KindEndpointSlice:         true,
	KindEndpoint:              true,
	KindEndpointAddress:       true,
	KindNetworkPolicy:         true,
	KindConfigMap:             true,
	KindPersistentVolumeClaim: true,
	KindServiceAccount:        true,
	KindEvent:                 true,
}

// domainTriples is the explicit, hand-authored portion of the schema
// table: the kind-specific relationships spec.md §4.1 calls out, plus the
// logical-kind relationships the resolver (pkg/resolver) derives.
var domainTriples = []Triple{
	// Ownership / management chains.
	{KindDeployment, EdgeManages, KindReplicaSet},
	{KindReplicaSet, EdgeManages, KindPod},
	{KindDaemonSet, EdgeManages, KindPod},
	{KindStatefulSet, EdgeManages, KindPod},
	{KindJob, EdgeManages, KindPod},
	{KindPod, EdgeManages, KindContainer},

	// Scheduling.
	{KindPod, EdgeRunsOn, KindNode},

	// Storage.
	{KindPod, EdgeClaimsVolume, KindPersistentVolumeClaim},
	{KindPersistentVolumeClaim, EdgeBoundTo, KindPersistentVolume},
	{KindPersistentVolume, EdgeIsClaimedBy, KindPersistentVolumeClaim},
	{KindPersistentVolumeClaim, EdgeUsesStorageClass, KindStorageClass},
	{KindStorageClass, EdgeUsesProvisioner, KindProvisioner},

	// Service routing.
	{KindService, EdgeManages, KindEndpointSlice},
	{KindEndpointSlice, EdgeContainsEndpoint, KindEndpoint},
	{KindEndpoint, EdgeHasAddress, KindEndpointAddress},
	{KindEndpointAddress, EdgeIsAddressOf, KindPod},

	// Ingress.
	{KindIngress, EdgeDefinesBackend, KindIngressServiceBackend},
	{KindIngressServiceBackend, EdgeTargetsService, KindService},

	// Config/volume references (a Pod's volumes/env can reference a ConfigMap).
	{KindPod, EdgeListedIn, KindConfigMap},

	// Identity.
	{KindPod, EdgeRuns, KindServiceAccount},

	// Logs (logical, one per container).
	{KindContainer, EdgeHasLogs, KindLogs},
	{KindHost, EdgeRuns, KindContainer},
}

var schema map[Triple]bool

func init() {
	schema = make(map[Triple]bool, len(domainTriples)+len(AllKinds)*2)

	for _, t := range domainTriples {
		schema[t] = true
	}

	for _, k := range AllKinds {
		if k == KindCluster {
			continue
		}
		schema[Triple{k, EdgePartOf, KindCluster}] = true
		if namespacedKinds[k] {
			schema[Triple{k, EdgeBelongsTo, KindNamespace}] = true
		}
	}

	for _, k := range AllKinds {
		if k == KindEvent || IsLogical(k) {
			continue
		}
		schema[Triple{KindEvent, EdgeConcerns, k}] = true
	}
}

// IsNamespaced reports whether k is scoped to a Namespace and therefore
// receives an implicit BelongsTo edge, used by pkg/resolver when emitting
// universal edges.
func IsNamespaced(k ResourceKind) bool {
	return namespacedKinds[k]
}

// IsKnownEdge reports whether (source, edge, target) is a member of the
// static schema table.
func IsKnownEdge(source ResourceKind, edge EdgeKind, target ResourceKind) bool {
	return schema[Triple{source, edge, target}]
}

// AllowedPairs returns every (source, target) pair the schema table
// permits for the given edge kind, in AllKinds order, for use in
// validator error messages.
func AllowedPairs(edge EdgeKind) []Triple {
	var pairs []Triple
	for _, s := range AllKinds {
		for _, t := range AllKinds {
			if schema[Triple{s, edge, t}] {
				pairs = append(pairs, Triple{s, edge, t})
			}
		}
	}
	return pairs
}
