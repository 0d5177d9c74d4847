package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/log"
	"github.com/cuemby/ariadne/pkg/metrics"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
)

// kindFiles maps every directly-observed kind to the filename it is read
// from within a snapshot directory (spec.md §6.1). Logical kinds have no
// file: the resolver derives them.
var kindFiles = map[ontology.ResourceKind]string{
	ontology.KindNamespace:             "namespaces.json",
	ontology.KindNode:                  "nodes.json",
	ontology.KindPod:                   "pods.json",
	ontology.KindDeployment:            "deployments.json",
	ontology.KindStatefulSet:           "statefulsets.json",
	ontology.KindReplicaSet:            "replicasets.json",
	ontology.KindDaemonSet:             "daemonsets.json",
	ontology.KindJob:                   "jobs.json",
	ontology.KindIngress:               "ingresses.json",
	ontology.KindService:               "services.json",
	ontology.KindEndpointSlice:         "endpointslices.json",
	ontology.KindNetworkPolicy:         "networkpolicies.json",
	ontology.KindConfigMap:             "configmaps.json",
	ontology.KindStorageClass:          "storageclasses.json",
	ontology.KindPersistentVolume:      "persistentvolumes.json",
	ontology.KindPersistentVolumeClaim: "persistentvolumeclaims.json",
	ontology.KindServiceAccount:        "serviceaccounts.json",
	ontology.KindEvent:                 "events.json",
}

// noisyAnnotations are stripped from metadata.annotations on read, the
// way a reflector cache strips them before they ever reach ariadne's
// property model (spec.md §4.4).
var noisyAnnotations = []string{
	"kubectl.kubernetes.io/last-applied-configuration",
}

// clusterDescriptor is the on-disk shape of cluster.json.
type clusterDescriptor struct {
	UID            string `json:"uid"`
	Name           string `json:"name"`
	ServerURL      string `json:"server_url"`
	ServerVersion  string `json:"server_version"`
	ResourceVer    string `json:"resource_version"`
}

// DirectoryObserver implements Observer by replaying a directory of JSON
// files: one array per observed kind (see kindFiles), plus cluster.json
// describing the cluster itself. A missing per-kind file yields an empty
// collection for that kind, not an error (spec.md §6.1); a missing or
// malformed cluster.json is an error, since every snapshot needs a
// cluster identity.
type DirectoryObserver struct {
	Dir string
}

// NewDirectoryObserver returns an Observer that replays dir.
func NewDirectoryObserver(dir string) *DirectoryObserver {
	return &DirectoryObserver{Dir: dir}
}

func (o *DirectoryObserver) Observe(ctx context.Context) (*ObservedSnapshot, error) {
	obsLog := log.WithComponent("snapshot")

	cluster, err := o.readCluster()
	if err != nil {
		return nil, err
	}

	snap := NewEmpty(cluster)
	for kind, filename := range kindFiles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		objs, err := o.readKind(kind, filename)
		if err != nil {
			if os.IsNotExist(err) {
				obsLog.Debug().Str("kind", string(kind)).Msg("no snapshot file, treating as empty")
				continue
			}
			return nil, fmt.Errorf("snapshot: reading %s: %w", filename, err)
		}
		snap.Objects[kind] = objs
		metrics.ObserverSnapshotsTotal.WithLabelValues(string(kind)).Add(float64(len(objs)))
	}

	obsLog.Info().Int("objects", len(snap.All())).Str("dir", o.Dir).Msg("directory snapshot replayed")
	return snap, nil
}

func (o *DirectoryObserver) readCluster() (clusterstate.Cluster, error) {
	path := filepath.Join(o.Dir, "cluster.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return clusterstate.Cluster{}, fmt.Errorf("snapshot: reading cluster.json: %w", err)
	}
	var desc clusterDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return clusterstate.Cluster{}, fmt.Errorf("snapshot: parsing cluster.json: %w", err)
	}
	return clusterstate.Cluster{
		ID: types.ObjectIdentifier{
			UID:             desc.UID,
			Name:            desc.Name,
			ResourceVersion: desc.ResourceVer,
		},
		ServerURL:     desc.ServerURL,
		ServerVersion: desc.ServerVersion,
	}, nil
}

func (o *DirectoryObserver) readKind(kind ontology.ResourceKind, filename string) ([]*types.GenericObject, error) {
	path := filepath.Join(o.Dir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	objs := make([]*types.GenericObject, 0, len(raw))
	for _, doc := range raw {
		stripNoise(doc)
		attrs := types.ResourceAttributes(doc)

		meta, _ := attrs.GetMap("metadata")
		id := types.ObjectIdentifier{}
		if meta != nil {
			id.UID, _ = stringField(meta, "uid")
			id.Name, _ = stringField(meta, "name")
			id.Namespace, _ = stringField(meta, "namespace")
			id.ResourceVersion, _ = stringField(meta, "resourceVersion")
		}

		objs = append(objs, &types.GenericObject{
			ID:         id,
			Kind:       kind,
			Attributes: attrs,
		})
	}
	return objs, nil
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// stripNoise removes fields a reflector cache would never surface:
// managedFields, and the last-applied-configuration annotation, both of
// which are server-bookkeeping rather than object state (spec.md §4.4).
func stripNoise(doc map[string]any) {
	meta, ok := doc["metadata"].(map[string]any)
	if !ok {
		return
	}
	delete(meta, "managedFields")
	if annotations, ok := meta["annotations"].(map[string]any); ok {
		for _, key := range noisyAnnotations {
			delete(annotations, key)
		}
	}
}
