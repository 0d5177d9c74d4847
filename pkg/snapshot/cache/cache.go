/*
Package cache durably persists the last ObservedSnapshot seen per kind, so
a restarted process can rebuild its ClusterState without blocking on a
fresh list from the cluster. One "objects" bbolt bucket holding one key
per ResourceKind, plus a "cluster" bucket for the cluster descriptor,
each entry JSON-marshaled — adapted from the teacher's pkg/storage
BoltStore, which keeps one bucket per entity type.
*/
package cache

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/snapshot"
	"github.com/cuemby/ariadne/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketObjects = []byte("objects")
	bucketCluster = []byte("cluster")
)

// clusterKey is the single key under which the cluster descriptor lives
// in bucketCluster; there is only ever one cluster per cache.
var clusterKey = []byte("cluster")

// Store is a bbolt-backed durable cache of the last ObservedSnapshot.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) a cache database under dataDir.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "ariadne-snapshot.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: opening %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketObjects, bucketCluster} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("creating bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists snap, one bbolt key per observed kind plus the cluster
// descriptor, overwriting whatever was cached before.
func (s *Store) Save(snap *snapshot.ObservedSnapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		clusterBucket := tx.Bucket(bucketCluster)
		clusterData, err := json.Marshal(snap.Cluster)
		if err != nil {
			return fmt.Errorf("marshaling cluster descriptor: %w", err)
		}
		if err := clusterBucket.Put(clusterKey, clusterData); err != nil {
			return err
		}

		objectsBucket := tx.Bucket(bucketObjects)
		for kind, objs := range snap.Objects {
			data, err := json.Marshal(objs)
			if err != nil {
				return fmt.Errorf("marshaling kind %s: %w", kind, err)
			}
			if err := objectsBucket.Put([]byte(kind), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reconstructs the last saved ObservedSnapshot, or returns
// (nil, nil) if nothing has ever been saved (no cluster descriptor
// cached).
func (s *Store) Load() (*snapshot.ObservedSnapshot, error) {
	var snap *snapshot.ObservedSnapshot

	err := s.db.View(func(tx *bolt.Tx) error {
		clusterBucket := tx.Bucket(bucketCluster)
		clusterData := clusterBucket.Get(clusterKey)
		if clusterData == nil {
			return nil
		}
		var cluster clusterstate.Cluster
		if err := json.Unmarshal(clusterData, &cluster); err != nil {
			return fmt.Errorf("unmarshaling cluster descriptor: %w", err)
		}
		snap = snapshot.NewEmpty(cluster)

		objectsBucket := tx.Bucket(bucketObjects)
		return objectsBucket.ForEach(func(k, v []byte) error {
			kind := ontology.ResourceKind(k)
			var objs []*types.GenericObject
			if err := json.Unmarshal(v, &objs); err != nil {
				return fmt.Errorf("unmarshaling kind %s: %w", kind, err)
			}
			snap.Objects[kind] = objs
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
