package cache

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/snapshot"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	snap := snapshot.NewEmpty(clusterstate.Cluster{
		ID:        types.ObjectIdentifier{UID: "c1", Name: "test"},
		ServerURL: "https://example",
	})
	snap.Objects[ontology.KindPod] = []*types.GenericObject{
		{ID: types.ObjectIdentifier{UID: "p1", Name: "p1"}, Kind: ontology.KindPod},
	}

	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "c1", loaded.Cluster.ID.UID)
	pods := loaded.KindObjects(ontology.KindPod)
	require.Len(t, pods, 1)
	assert.Equal(t, "p1", pods[0].ID.UID)
}

func TestLoadEmptyCacheReturnsNil(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
