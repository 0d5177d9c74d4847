package metrics

import (
	"time"

	"github.com/cuemby/ariadne/pkg/clusterstate"
)

// Collector periodically snapshots a ClusterState's node/edge counts
// into the NodesTotal/EdgesTotal gauges. Ticker shape grounded on the
// teacher's pkg/metrics/collector.go (15s tick, collect once on start,
// stop via a close-only channel); the per-manager ListX calls are
// replaced with one guard.Read over the state this process already
// holds, since ariadne has no separate manager to poll.
type Collector struct {
	guard  *clusterstate.Guard
	stopCh chan struct{}
}

// NewCollector creates a collector over guard.
func NewCollector(guard *clusterstate.Guard) *Collector {
	return &Collector{
		guard:  guard,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics every 15 seconds until Stop is called.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.guard.Read(func(state *clusterstate.ClusterState) {
		nodeCounts := make(map[string]int)
		for _, obj := range state.IterNodes() {
			nodeCounts[string(obj.Kind)]++
		}
		for kind, count := range nodeCounts {
			NodesTotal.WithLabelValues(kind).Set(float64(count))
		}

		edgeCounts := make(map[string]int)
		for _, edge := range state.IterEdges() {
			edgeCounts[string(edge.EdgeKind)]++
		}
		for kind, count := range edgeCounts {
			EdgesTotal.WithLabelValues(kind).Set(float64(count))
		}
	})
}
