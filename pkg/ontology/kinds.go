package ontology

// ResourceKind is the closed enumeration of object types ariadne knows
// about, either observed directly from the cluster or synthesized by the
// resolver (see IsLogical).
type ResourceKind string

const (
	KindCluster               ResourceKind = "Cluster"
	KindNamespace             ResourceKind = "Namespace"
	KindNode                  ResourceKind = "Node"
	KindPod                   ResourceKind = "Pod"
	KindContainer             ResourceKind = "Container"
	KindDeployment            ResourceKind = "Deployment"
	KindStatefulSet           ResourceKind = "StatefulSet"
	KindReplicaSet            ResourceKind = "ReplicaSet"
	KindDaemonSet             ResourceKind = "DaemonSet"
	KindJob                   ResourceKind = "Job"
	KindIngress               ResourceKind = "Ingress"
	KindIngressServiceBackend ResourceKind = "IngressServiceBackend"
	KindService               ResourceKind = "Service"
	KindEndpointSlice         ResourceKind = "EndpointSlice"
	KindEndpoint              ResourceKind = "Endpoint"
	KindEndpointAddress       ResourceKind = "EndpointAddress"
	KindNetworkPolicy         ResourceKind = "NetworkPolicy"
	KindConfigMap             ResourceKind = "ConfigMap"
	KindProvisioner           ResourceKind = "Provisioner"
	KindStorageClass          ResourceKind = "StorageClass"
	KindPersistentVolume      ResourceKind = "PersistentVolume"
	KindPersistentVolumeClaim ResourceKind = "PersistentVolumeClaim"
	KindServiceAccount        ResourceKind = "ServiceAccount"
	KindEvent                 ResourceKind = "Event"
	KindHost                  ResourceKind = "Host"
	KindLogs                  ResourceKind = "Logs"
)

// AllKinds lists every known ResourceKind, in a stable order used for
// deterministic iteration (e.g. ObservedSnapshot.All and NewEmpty,
// AllowedPairs listings).
var AllKinds = []ResourceKind{
	KindCluster, KindNamespace, KindNode, KindPod, KindContainer,
	KindDeployment, KindStatefulSet, KindReplicaSet, KindDaemonSet, KindJob,
	KindIngress, KindIngressServiceBackend, KindService, KindEndpointSlice,
	KindEndpoint, KindEndpointAddress, KindNetworkPolicy, KindConfigMap,
	KindProvisioner, KindStorageClass, KindPersistentVolume,
	KindPersistentVolumeClaim, KindServiceAccount, KindEvent, KindHost, KindLogs,
}

// logicalKinds are never directly observed; the resolver synthesizes them
// from another object's payload.
var logicalKinds = map[ResourceKind]bool{
	KindEndpoint:              true,
	KindEndpointAddress:       true,
	KindIngressServiceBackend: true,
	KindHost:                  true,
	KindLogs:                  true,
	KindProvisioner:           true,
	KindContainer:             true,
	KindCluster:               true,
}

// IsLogical reports whether k is synthesized by the resolver rather than
// observed directly.
func IsLogical(k ResourceKind) bool {
	return logicalKinds[k]
}

// IsKnownKind reports whether k is a member of the closed enumeration.
func IsKnownKind(k ResourceKind) bool {
	for _, known := range AllKinds {
		if known == k {
			return true
		}
	}
	return false
}

// EdgeKind is the closed enumeration of relationship types between nodes
// in the cluster graph.
type EdgeKind string

const (
	EdgeManages           EdgeKind = "Manages"
	EdgeRunsOn            EdgeKind = "RunsOn"
	EdgeBelongsTo         EdgeKind = "BelongsTo"
	EdgePartOf            EdgeKind = "PartOf"
	EdgeClaimsVolume      EdgeKind = "ClaimsVolume"
	EdgeBoundTo           EdgeKind = "BoundTo"
	EdgeUsesStorageClass  EdgeKind = "UsesStorageClass"
	EdgeUsesProvisioner   EdgeKind = "UsesProvisioner"
	EdgeDefinesBackend    EdgeKind = "DefinesBackend"
	EdgeTargetsService    EdgeKind = "TargetsService"
	EdgeContainsEndpoint  EdgeKind = "ContainsEndpoint"
	EdgeHasAddress        EdgeKind = "HasAddress"
	EdgeListedIn          EdgeKind = "ListedIn"
	EdgeIsAddressOf       EdgeKind = "IsAddressOf"
	EdgeIsClaimedBy       EdgeKind = "IsClaimedBy"
	EdgeHasLogs           EdgeKind = "HasLogs"
	EdgeRuns              EdgeKind = "Runs"
	EdgeConcerns          EdgeKind = "Concerns"
)

// AllEdgeKinds lists every known EdgeKind.
var AllEdgeKinds = []EdgeKind{
	EdgeManages, EdgeRunsOn, EdgeBelongsTo, EdgePartOf, EdgeClaimsVolume,
	EdgeBoundTo, EdgeUsesStorageClass, EdgeUsesProvisioner, EdgeDefinesBackend,
	EdgeTargetsService, EdgeContainsEndpoint, EdgeHasAddress, EdgeListedIn,
	EdgeIsAddressOf, EdgeIsClaimedBy, EdgeHasLogs, EdgeRuns, EdgeConcerns,
}

// IsKnownEdgeKind reports whether e is a member of the closed enumeration.
func IsKnownEdgeKind(e EdgeKind) bool {
	for _, known := range AllEdgeKinds {
		if known == e {
			return true
		}
	}
	return false
}
