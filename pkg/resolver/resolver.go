package resolver

import (
	"fmt"
	"strings"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/snapshot"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/google/uuid"
)

// nsName is the "namespace/name" key used to look up namespaced objects
// by their human-readable identity rather than their UID, since that's
// how one object's spec refers to another (spec.md §4.5 step 4).
func nsName(namespace, name string) string {
	return namespace + "/" + name
}

// index collects the name-based lookup tables the edge-derivation rules
// need, built once per Resolve call from the objects already inserted
// into the ClusterState.
type index struct {
	namespaceUID      map[string]string // name -> uid
	nodeUID           map[string]string // name -> uid
	pvUID             map[string]string // name -> uid
	pvcUID            map[string]string // ns/name -> uid
	serviceUID        map[string]string // ns/name -> uid
	serviceAccountUID map[string]string // ns/name -> uid
	configMapUID      map[string]string // ns/name -> uid
	storageClassUID   map[string]string // name -> uid
	provisionerUID    map[string]string // provisioner string -> synthetic uid
	hostUIDByNode     map[string]string // node uid -> synthetic host uid
	containersByPod   map[string][]string
	endpointSlicesBySvc map[string][]string // ns/serviceName -> endpointslice uids
	byIdentity        map[string]string // "kind/ns/name" -> uid, for Event correlation
}

func newIndex() *index {
	return &index{
		namespaceUID:        make(map[string]string),
		nodeUID:              make(map[string]string),
		pvUID:                make(map[string]string),
		pvcUID:               make(map[string]string),
		serviceUID:           make(map[string]string),
		serviceAccountUID:    make(map[string]string),
		configMapUID:         make(map[string]string),
		storageClassUID:      make(map[string]string),
		provisionerUID:       make(map[string]string),
		hostUIDByNode:        make(map[string]string),
		containersByPod:      make(map[string][]string),
		endpointSlicesBySvc:  make(map[string][]string),
		byIdentity:           make(map[string]string),
	}
}

// Resolve performs the resolver steps of spec.md §4.5 over one snapshot,
// returning a freshly built ClusterState. It never mutates an existing
// ClusterState in place; callers that want incremental updates Resolve a
// new snapshot and diff the two states (pkg/diff), applying the delta
// via clusterstate.Guard.Write.
func Resolve(snap *snapshot.ObservedSnapshot) *clusterstate.ClusterState {
	state := clusterstate.New(snap.Cluster)
	idx := newIndex()

	// The Cluster node itself, the target of every PartOf edge.
	state.AddNode(types.GenericObject{ID: snap.Cluster.ID, Kind: ontology.KindCluster})

	// Step 2: one node per observed object, and populate the identity
	// index as we go.
	observed := snap.All()
	for _, obj := range observed {
		state.AddNode(*obj)
		idx.record(obj)
	}

	// Step 3: derive logical children (Container, IngressServiceBackend,
	// Endpoint, EndpointAddress), plus Host (one per Node) and Logs (one
	// per Container), which the schema table also requires but which
	// spec.md §4.5's prose folds into "derive logical children" rather
	// than calling out by name.
	var logical []*types.GenericObject
	for _, obj := range observed {
		children := deriveLogicalChildren(obj, idx)
		logical = append(logical, children...)
	}
	for _, node := range snap.KindObjects(ontology.KindNode) {
		logical = append(logical, deriveHost(node, idx))
	}
	for _, obj := range logical {
		if obj.Kind == ontology.KindContainer {
			logical = append(logical, deriveLogs(obj))
		}
	}
	for _, obj := range logical {
		state.AddNode(*obj)
		idx.record(obj)
	}

	// Step 4: emit edges. Universal edges (PartOf/BelongsTo) apply to
	// every node, observed or logical.
	all := append(append([]*types.GenericObject{}, observed...), logical...)
	for _, obj := range all {
		emitUniversalEdges(state, obj, idx)
	}
	for _, obj := range observed {
		emitDomainEdges(state, obj, idx)
	}
	for _, obj := range logical {
		emitDomainEdges(state, obj, idx)
	}

	return state
}

func (idx *index) record(obj *types.GenericObject) {
	key := fmt.Sprintf("%s/%s/%s", obj.Kind, obj.ID.Namespace, obj.ID.Name)
	idx.byIdentity[key] = obj.ID.UID

	switch obj.Kind {
	case ontology.KindNamespace:
		idx.namespaceUID[obj.ID.Name] = obj.ID.UID
	case ontology.KindNode:
		idx.nodeUID[obj.ID.Name] = obj.ID.UID
	case ontology.KindPersistentVolume:
		idx.pvUID[obj.ID.Name] = obj.ID.UID
	case ontology.KindPersistentVolumeClaim:
		idx.pvcUID[nsName(obj.ID.Namespace, obj.ID.Name)] = obj.ID.UID
	case ontology.KindService:
		idx.serviceUID[nsName(obj.ID.Namespace, obj.ID.Name)] = obj.ID.UID
	case ontology.KindServiceAccount:
		idx.serviceAccountUID[nsName(obj.ID.Namespace, obj.ID.Name)] = obj.ID.UID
	case ontology.KindConfigMap:
		idx.configMapUID[nsName(obj.ID.Namespace, obj.ID.Name)] = obj.ID.UID
	case ontology.KindStorageClass:
		idx.storageClassUID[obj.ID.Name] = obj.ID.UID
	case ontology.KindEndpointSlice:
		if svc, ok := obj.Attributes.GetMap("metadata", "labels"); ok {
			if name, ok := svc["kubernetes.io/service-name"].(string); ok && name != "" {
				key := nsName(obj.ID.Namespace, name)
				idx.endpointSlicesBySvc[key] = append(idx.endpointSlicesBySvc[key], obj.ID.UID)
			}
		}
	}
}

// syntheticUID derives a stable UID for an object the resolver invents —
// one with no orchestrator-issued UID of its own — as a deterministic
// UUID over the joined parts, so the same logical child gets the same
// UID on every resolution cycle; that stability is what lets pkg/diff
// recognize it as unchanged rather than removed-then-re-added.
func syntheticUID(parts ...string) string {
	seed := strings.Join(parts, "/")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// deriveLogicalChildren implements spec.md §4.5 step 3 for one observed
// object.
func deriveLogicalChildren(obj *types.GenericObject, idx *index) []*types.GenericObject {
	switch obj.Kind {
	case ontology.KindPod:
		children := derivePodContainers(obj)
		var uids []string
		for _, c := range children {
			uids = append(uids, c.ID.UID)
		}
		idx.containersByPod[obj.ID.UID] = uids
		return children
	case ontology.KindIngress:
		return deriveIngressBackends(obj)
	case ontology.KindEndpointSlice:
		return deriveEndpoints(obj)
	default:
		return nil
	}
}

func derivePodContainers(pod *types.GenericObject) []*types.GenericObject {
	containers, _ := pod.Attributes.GetSlice("spec", "containers")
	out := make([]*types.GenericObject, 0, len(containers))
	for _, c := range containers {
		spec, ok := c.(map[string]any)
		if !ok {
			continue
		}
		name, _ := spec["name"].(string)
		if name == "" {
			continue
		}
		uid := syntheticUID("container", pod.ID.UID, name)
		out = append(out, &types.GenericObject{
			ID:   types.ObjectIdentifier{UID: uid, Name: name, Namespace: pod.ID.Namespace},
			Kind: ontology.KindContainer,
			Attributes: types.ResourceAttributes{
				"metadata": map[string]any{"uid": uid, "name": name, "namespace": pod.ID.Namespace},
				"spec":     spec,
				"podUID":   pod.ID.UID,
			},
		})
	}
	return out
}

func deriveIngressBackends(ing *types.GenericObject) []*types.GenericObject {
	rules, _ := ing.Attributes.GetSlice("spec", "rules")
	var out []*types.GenericObject
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
		for pi, p := range paths {
			path, ok := p.(map[string]any)
			if !ok {
				continue
			}
			backend, ok := path["backend"].(map[string]any)
			if !ok {
				continue
			}
			svc, ok := backend["service"].(map[string]any)
			if !ok {
				continue
			}
			serviceName, _ := svc["name"].(string)
			if serviceName == "" {
				continue
			}
			uid := syntheticUID("ingress-backend", ing.ID.UID, fmt.Sprint(ri), fmt.Sprint(pi))
			name := fmt.Sprintf("%s-rule%d-path%d", ing.ID.Name, ri, pi)
			out = append(out, &types.GenericObject{
				ID:   types.ObjectIdentifier{UID: uid, Name: name, Namespace: ing.ID.Namespace},
				Kind: ontology.KindIngressServiceBackend,
				Attributes: types.ResourceAttributes{
					"metadata":    map[string]any{"uid": uid, "name": name, "namespace": ing.ID.Namespace},
					"serviceName": serviceName,
					"path":        path["path"],
					"port":        svc["port"],
					"ingressUID":  ing.ID.UID,
				},
			})
		}
	}
	return out
}

func deriveEndpoints(es *types.GenericObject) []*types.GenericObject {
	endpoints, _ := es.Attributes.GetSlice("endpoints")
	var out []*types.GenericObject
	for ei, e := range endpoints {
		ep, ok := e.(map[string]any)
		if !ok {
			continue
		}
		epUID := syntheticUID("endpoint", es.ID.UID, fmt.Sprint(ei))
		epName := fmt.Sprintf("%s-endpoint%d", es.ID.Name, ei)
		out = append(out, &types.GenericObject{
			ID:   types.ObjectIdentifier{UID: epUID, Name: epName, Namespace: es.ID.Namespace},
			Kind: ontology.KindEndpoint,
			Attributes: types.ResourceAttributes{
				"metadata":          map[string]any{"uid": epUID, "name": epName, "namespace": es.ID.Namespace},
				"conditions":        ep["conditions"],
				"endpointSliceUID":  es.ID.UID,
			},
		})

		addresses, _ := ep["addresses"].([]any)
		targetRef, _ := ep["targetRef"].(map[string]any)
		for ai, a := range addresses {
			ip, _ := a.(string)
			if ip == "" {
				continue
			}
			addrUID := syntheticUID("endpoint-address", epUID, fmt.Sprint(ai))
			addrName := fmt.Sprintf("%s-addr%d", epName, ai)
			out = append(out, &types.GenericObject{
				ID:   types.ObjectIdentifier{UID: addrUID, Name: addrName, Namespace: es.ID.Namespace},
				Kind: ontology.KindEndpointAddress,
				Attributes: types.ResourceAttributes{
					"metadata":    map[string]any{"uid": addrUID, "name": addrName, "namespace": es.ID.Namespace},
					"ip":          ip,
					"targetRef":   targetRef,
					"endpointUID": epUID,
				},
			})
		}
	}
	return out
}

func deriveHost(node *types.GenericObject, idx *index) *types.GenericObject {
	uid := syntheticUID("host", node.ID.UID)
	idx.hostUIDByNode[node.ID.UID] = uid
	return &types.GenericObject{
		ID:   types.ObjectIdentifier{UID: uid, Name: node.ID.Name},
		Kind: ontology.KindHost,
		Attributes: types.ResourceAttributes{
			"metadata": map[string]any{"uid": uid, "name": node.ID.Name},
			"nodeUID":  node.ID.UID,
		},
	}
}

func deriveLogs(container *types.GenericObject) *types.GenericObject {
	uid := syntheticUID("logs", container.ID.UID)
	name := container.ID.Name + "-logs"
	return &types.GenericObject{
		ID:   types.ObjectIdentifier{UID: uid, Name: name, Namespace: container.ID.Namespace},
		Kind: ontology.KindLogs,
		Attributes: types.ResourceAttributes{
			"metadata":     map[string]any{"uid": uid, "name": name, "namespace": container.ID.Namespace},
			"containerUID": container.ID.UID,
		},
	}
}
