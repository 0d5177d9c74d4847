package resolver

import (
	"fmt"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
)

// emitUniversalEdges adds the two edges every node gets regardless of
// kind: PartOf the Cluster, and BelongsTo its Namespace if it is
// namespace-scoped (spec.md §4.5 step 4). PartOf relies on
// clusterstate.ClusterState.AddEdge's own dangling-endpoint drop+warn
// behavior should the Cluster node be absent. BelongsTo is only emitted
// when a Namespace of that name was observed; otherwise it is skipped
// here without a log entry.
func emitUniversalEdges(state *clusterstate.ClusterState, obj *types.GenericObject, idx *index) {
	if obj.Kind == ontology.KindCluster {
		return
	}
	state.AddEdge(types.GraphEdge{
		SourceUID: obj.ID.UID, SourceKind: obj.Kind,
		TargetUID: state.Cluster.ID.UID, TargetKind: ontology.KindCluster,
		EdgeKind: ontology.EdgePartOf,
	})
	if ontology.IsNamespaced(obj.Kind) && obj.ID.Namespace != "" {
		if nsUID, ok := idx.namespaceUID[obj.ID.Namespace]; ok {
			state.AddEdge(types.GraphEdge{
				SourceUID: obj.ID.UID, SourceKind: obj.Kind,
				TargetUID: nsUID, TargetKind: ontology.KindNamespace,
				EdgeKind: ontology.EdgeBelongsTo,
			})
		}
	}
}

// emitDomainEdges implements spec.md §4.5 step 4's kind-specific rules.
//
// KindHost and KindPersistentVolume have no case here: their edges are
// emitted from the other endpoint (emitContainerEdges for Host→Container,
// emitPVCEdges for PersistentVolume↔PersistentVolumeClaim) since that
// side holds the pairing data.
func emitDomainEdges(state *clusterstate.ClusterState, obj *types.GenericObject, idx *index) {
	emitOwnerReferenceEdges(state, obj)

	switch obj.Kind {
	case ontology.KindPod:
		emitPodEdges(state, obj, idx)
	case ontology.KindContainer:
		emitContainerEdges(state, obj, idx)
	case ontology.KindPersistentVolumeClaim:
		emitPVCEdges(state, obj, idx)
	case ontology.KindStorageClass:
		emitStorageClassEdges(state, obj, idx)
	case ontology.KindService:
		emitServiceEdges(state, obj, idx)
	case ontology.KindEndpointSlice:
		emitEndpointSliceEdges(state, obj)
	case ontology.KindEndpointAddress:
		emitEndpointAddressEdges(state, obj)
	case ontology.KindIngress:
		emitIngressEdges(state, obj)
	case ontology.KindIngressServiceBackend:
		emitIngressBackendEdges(state, obj, idx)
	case ontology.KindEvent:
		emitEventEdges(state, obj, idx)
	}
}

// emitOwnerReferenceEdges produces a Manages edge from owner to owned for
// every owner reference the object carries, skipping any (ownerKind,
// Manages, obj.Kind) pair the schema table doesn't permit (spec.md §4.5
// step 4, first bullet).
func emitOwnerReferenceEdges(state *clusterstate.ClusterState, obj *types.GenericObject) {
	for _, ref := range obj.OwnerReferences() {
		if !ontology.IsKnownEdge(ref.Kind, ontology.EdgeManages, obj.Kind) {
			continue
		}
		state.AddEdge(types.GraphEdge{
			SourceUID: ref.UID, SourceKind: ref.Kind,
			TargetUID: obj.ID.UID, TargetKind: obj.Kind,
			EdgeKind: ontology.EdgeManages,
		})
	}
}

func emitPodEdges(state *clusterstate.ClusterState, pod *types.GenericObject, idx *index) {
	for _, containerUID := range idx.containersByPod[pod.ID.UID] {
		state.AddEdge(types.GraphEdge{
			SourceUID: pod.ID.UID, SourceKind: ontology.KindPod,
			TargetUID: containerUID, TargetKind: ontology.KindContainer,
			EdgeKind: ontology.EdgeManages,
		})
	}

	if nodeName, ok := pod.Attributes.GetString("spec", "nodeName"); ok && nodeName != "" {
		if nodeUID, ok := idx.nodeUID[nodeName]; ok {
			state.AddEdge(types.GraphEdge{
				SourceUID: pod.ID.UID, SourceKind: ontology.KindPod,
				TargetUID: nodeUID, TargetKind: ontology.KindNode,
				EdgeKind: ontology.EdgeRunsOn,
			})
		}
	}

	for _, claimName := range pvcNamesForPod(pod) {
		if pvcUID, ok := idx.pvcUID[nsName(pod.ID.Namespace, claimName)]; ok {
			state.AddEdge(types.GraphEdge{
				SourceUID: pod.ID.UID, SourceKind: ontology.KindPod,
				TargetUID: pvcUID, TargetKind: ontology.KindPersistentVolumeClaim,
				EdgeKind: ontology.EdgeClaimsVolume,
			})
		}
	}

	for _, cmName := range configMapNamesForPod(pod) {
		if cmUID, ok := idx.configMapUID[nsName(pod.ID.Namespace, cmName)]; ok {
			state.AddEdge(types.GraphEdge{
				SourceUID: pod.ID.UID, SourceKind: ontology.KindPod,
				TargetUID: cmUID, TargetKind: ontology.KindConfigMap,
				EdgeKind: ontology.EdgeListedIn,
			})
		}
	}

	saName, _ := pod.Attributes.GetString("spec", "serviceAccountName")
	if saName == "" {
		saName = "default"
	}
	if saUID, ok := idx.serviceAccountUID[nsName(pod.ID.Namespace, saName)]; ok {
		state.AddEdge(types.GraphEdge{
			SourceUID: pod.ID.UID, SourceKind: ontology.KindPod,
			TargetUID: saUID, TargetKind: ontology.KindServiceAccount,
			EdgeKind: ontology.EdgeRuns,
		})
	}
}

// pvcNamesForPod returns every PVC name spec.volumes references.
func pvcNamesForPod(pod *types.GenericObject) []string {
	volumes, _ := pod.Attributes.GetSlice("spec", "volumes")
	var names []string
	for _, v := range volumes {
		vol, ok := v.(map[string]any)
		if !ok {
			continue
		}
		claim, ok := vol["persistentVolumeClaim"].(map[string]any)
		if !ok {
			continue
		}
		if name, ok := claim["claimName"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// configMapNamesForPod returns every ConfigMap name referenced by the
// pod's volumes, envFrom, or per-container env valueFrom.
func configMapNamesForPod(pod *types.GenericObject) []string {
	var names []string

	volumes, _ := pod.Attributes.GetSlice("spec", "volumes")
	for _, v := range volumes {
		vol, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if cm, ok := vol["configMap"].(map[string]any); ok {
			if name, ok := cm["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
	}

	containers, _ := pod.Attributes.GetSlice("spec", "containers")
	for _, c := range containers {
		spec, ok := c.(map[string]any)
		if !ok {
			continue
		}
		envFrom, _ := spec["envFrom"].([]any)
		for _, ef := range envFrom {
			entry, ok := ef.(map[string]any)
			if !ok {
				continue
			}
			if ref, ok := entry["configMapRef"].(map[string]any); ok {
				if name, ok := ref["name"].(string); ok && name != "" {
					names = append(names, name)
				}
			}
		}
		env, _ := spec["env"].([]any)
		for _, e := range env {
			entry, ok := e.(map[string]any)
			if !ok {
				continue
			}
			valueFrom, ok := entry["valueFrom"].(map[string]any)
			if !ok {
				continue
			}
			if ref, ok := valueFrom["configMapKeyRef"].(map[string]any); ok {
				if name, ok := ref["name"].(string); ok && name != "" {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

func emitContainerEdges(state *clusterstate.ClusterState, container *types.GenericObject, idx *index) {
	podUID, _ := container.Attributes.GetString("podUID")
	if podUID == "" {
		return
	}
	if hostUID, ok := idx.podHost(state, podUID); ok {
		state.AddEdge(types.GraphEdge{
			SourceUID: hostUID, SourceKind: ontology.KindHost,
			TargetUID: container.ID.UID, TargetKind: ontology.KindContainer,
			EdgeKind: ontology.EdgeRuns,
		})
	}
}

// podHost resolves the Host node for the Node a pod is scheduled on, by
// walking the RunsOn edge the pod already has.
func (idx *index) podHost(state *clusterstate.ClusterState, podUID string) (string, bool) {
	handle, ok := state.HandleOf(podUID)
	if !ok {
		return "", false
	}
	for _, e := range state.EdgesFrom(handle) {
		if e.EdgeKind == ontology.EdgeRunsOn && e.TargetKind == ontology.KindNode {
			if hostUID, ok := idx.hostUIDByNode[e.TargetUID]; ok {
				return hostUID, true
			}
		}
	}
	return "", false
}

func emitPVCEdges(state *clusterstate.ClusterState, pvc *types.GenericObject, idx *index) {
	if volName, ok := pvc.Attributes.GetString("spec", "volumeName"); ok && volName != "" {
		if pvUID, ok := idx.pvUID[volName]; ok {
			state.AddEdge(types.GraphEdge{
				SourceUID: pvc.ID.UID, SourceKind: ontology.KindPersistentVolumeClaim,
				TargetUID: pvUID, TargetKind: ontology.KindPersistentVolume,
				EdgeKind: ontology.EdgeBoundTo,
			})
			state.AddEdge(types.GraphEdge{
				SourceUID: pvUID, SourceKind: ontology.KindPersistentVolume,
				TargetUID: pvc.ID.UID, TargetKind: ontology.KindPersistentVolumeClaim,
				EdgeKind: ontology.EdgeIsClaimedBy,
			})
		}
	}
	if scName, ok := pvc.Attributes.GetString("spec", "storageClassName"); ok && scName != "" {
		if scUID, ok := idx.storageClassUID[scName]; ok {
			state.AddEdge(types.GraphEdge{
				SourceUID: pvc.ID.UID, SourceKind: ontology.KindPersistentVolumeClaim,
				TargetUID: scUID, TargetKind: ontology.KindStorageClass,
				EdgeKind: ontology.EdgeUsesStorageClass,
			})
		}
	}
}

func emitStorageClassEdges(state *clusterstate.ClusterState, sc *types.GenericObject, idx *index) {
	provisioner, ok := sc.Attributes.GetString("provisioner")
	if !ok || provisioner == "" {
		return
	}
	provUID, ok := idx.provisionerUID[provisioner]
	if !ok {
		provUID = syntheticUID("provisioner", provisioner)
		idx.provisionerUID[provisioner] = provUID
		state.AddNode(types.GenericObject{
			ID:   types.ObjectIdentifier{UID: provUID, Name: provisioner},
			Kind: ontology.KindProvisioner,
			Attributes: types.ResourceAttributes{
				"metadata": map[string]any{"uid": provUID, "name": provisioner},
			},
		})
		state.AddEdge(types.GraphEdge{
			SourceUID: provUID, SourceKind: ontology.KindProvisioner,
			TargetUID: state.Cluster.ID.UID, TargetKind: ontology.KindCluster,
			EdgeKind: ontology.EdgePartOf,
		})
	}
	state.AddEdge(types.GraphEdge{
		SourceUID: sc.ID.UID, SourceKind: ontology.KindStorageClass,
		TargetUID: provUID, TargetKind: ontology.KindProvisioner,
		EdgeKind: ontology.EdgeUsesProvisioner,
	})
}

func emitServiceEdges(state *clusterstate.ClusterState, svc *types.GenericObject, idx *index) {
	key := nsName(svc.ID.Namespace, svc.ID.Name)
	for _, esUID := range idx.endpointSlicesBySvc[key] {
		state.AddEdge(types.GraphEdge{
			SourceUID: svc.ID.UID, SourceKind: ontology.KindService,
			TargetUID: esUID, TargetKind: ontology.KindEndpointSlice,
			EdgeKind: ontology.EdgeManages,
		})
	}
}

func emitEndpointSliceEdges(state *clusterstate.ClusterState, es *types.GenericObject) {
	endpoints, _ := es.Attributes.GetSlice("endpoints")
	for ei := range endpoints {
		epUID := syntheticUID("endpoint", es.ID.UID, fmt.Sprint(ei))
		state.AddEdge(types.GraphEdge{
			SourceUID: es.ID.UID, SourceKind: ontology.KindEndpointSlice,
			TargetUID: epUID, TargetKind: ontology.KindEndpoint,
			EdgeKind: ontology.EdgeContainsEndpoint,
		})
	}
}

func emitEndpointAddressEdges(state *clusterstate.ClusterState, addr *types.GenericObject) {
	epUID, _ := addr.Attributes.GetString("endpointUID")
	if epUID != "" {
		state.AddEdge(types.GraphEdge{
			SourceUID: epUID, SourceKind: ontology.KindEndpoint,
			TargetUID: addr.ID.UID, TargetKind: ontology.KindEndpointAddress,
			EdgeKind: ontology.EdgeHasAddress,
		})
	}

	targetRef, ok := addr.Attributes.GetMap("targetRef")
	if !ok {
		return
	}
	kind, _ := targetRef["kind"].(string)
	uid, _ := targetRef["uid"].(string)
	if kind == string(ontology.KindPod) && uid != "" {
		state.AddEdge(types.GraphEdge{
			SourceUID: addr.ID.UID, SourceKind: ontology.KindEndpointAddress,
			TargetUID: uid, TargetKind: ontology.KindPod,
			EdgeKind: ontology.EdgeIsAddressOf,
		})
	}
}

func emitIngressEdges(state *clusterstate.ClusterState, ing *types.GenericObject) {
	rules, _ := ing.Attributes.GetSlice("spec", "rules")
	for ri, r := range rules {
		rule, ok := r.(map[string]any)
		if !ok {
			continue
		}
		http, ok := rule["http"].(map[string]any)
		if !ok {
			continue
		}
		paths, _ := http["paths"].([]any)
		for pi := range paths {
			backendUID := syntheticUID("ingress-backend", ing.ID.UID, fmt.Sprint(ri), fmt.Sprint(pi))
			state.AddEdge(types.GraphEdge{
				SourceUID: ing.ID.UID, SourceKind: ontology.KindIngress,
				TargetUID: backendUID, TargetKind: ontology.KindIngressServiceBackend,
				EdgeKind: ontology.EdgeDefinesBackend,
			})
		}
	}
}

func emitIngressBackendEdges(state *clusterstate.ClusterState, backend *types.GenericObject, idx *index) {
	serviceName, _ := backend.Attributes.GetString("serviceName")
	if serviceName == "" {
		return
	}
	if svcUID, ok := idx.serviceUID[nsName(backend.ID.Namespace, serviceName)]; ok {
		state.AddEdge(types.GraphEdge{
			SourceUID: backend.ID.UID, SourceKind: ontology.KindIngressServiceBackend,
			TargetUID: svcUID, TargetKind: ontology.KindService,
			EdgeKind: ontology.EdgeTargetsService,
		})
	}
}

func emitEventEdges(state *clusterstate.ClusterState, event *types.GenericObject, idx *index) {
	involved, ok := event.Attributes.GetMap("involvedObject")
	if !ok {
		return
	}
	kind, _ := involved["kind"].(string)
	if kind == "" || !ontology.IsKnownKind(ontology.ResourceKind(kind)) {
		return
	}
	uid, _ := involved["uid"].(string)
	targetUID := uid
	if targetUID == "" {
		namespace, _ := involved["namespace"].(string)
		name, _ := involved["name"].(string)
		targetUID = idx.byIdentity[fmtIdentity(kind, namespace, name)]
	}
	if targetUID == "" {
		return
	}
	state.AddEdge(types.GraphEdge{
		SourceUID: event.ID.UID, SourceKind: ontology.KindEvent,
		TargetUID: targetUID, TargetKind: ontology.ResourceKind(kind),
		EdgeKind: ontology.EdgeConcerns,
	})
}

func fmtIdentity(kind, namespace, name string) string {
	return kind + "/" + namespace + "/" + name
}
