package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDirectoryObserverReplaysFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cluster.json", `{"uid":"c1","name":"test-cluster","server_url":"https://example","server_version":"v1.30.0"}`)
	writeFile(t, dir, "pods.json", `[
		{"metadata":{"uid":"p1","name":"p1","namespace":"ns1","resourceVersion":"10",
			"annotations":{"kubectl.kubernetes.io/last-applied-configuration":"{}","keep":"me"},
			"managedFields":[{"manager":"kubelet"}]},
		 "status":{"phase":"Running"}}
	]`)

	obs := NewDirectoryObserver(dir)
	snap, err := obs.Observe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "c1", snap.Cluster.ID.UID)
	assert.Equal(t, "v1.30.0", snap.Cluster.ServerVersion)

	pods := snap.KindObjects(ontology.KindPod)
	require.Len(t, pods, 1)
	assert.Equal(t, "p1", pods[0].ID.UID)
	assert.Equal(t, "ns1", pods[0].ID.Namespace)
	assert.Equal(t, "10", pods[0].ID.ResourceVersion)

	meta, ok := pods[0].Attributes.GetMap("metadata")
	require.True(t, ok)
	annotations, ok := meta["annotations"].(map[string]any)
	require.True(t, ok)
	_, hasNoisy := annotations["kubectl.kubernetes.io/last-applied-configuration"]
	assert.False(t, hasNoisy)
	assert.Equal(t, "me", annotations["keep"])
	_, hasManagedFields := meta["managedFields"]
	assert.False(t, hasManagedFields)
}

func TestDirectoryObserverMissingKindFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cluster.json", `{"uid":"c1","name":"test-cluster"}`)

	obs := NewDirectoryObserver(dir)
	snap, err := obs.Observe(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.KindObjects(ontology.KindPod))
	assert.Empty(t, snap.KindObjects(ontology.KindDeployment))
}

func TestDirectoryObserverMissingClusterFileErrors(t *testing.T) {
	dir := t.TempDir()
	obs := NewDirectoryObserver(dir)
	_, err := obs.Observe(context.Background())
	assert.Error(t, err)
}
