package cluster_topology

const (
	// The reserved bootstrap identity; node 0 always hosts it when node 0
	// hosts producers at all
	ReservedProducerName = "eosio"

	producerNamePrefix   = "defproducer"
	producerNameAlphabet = "abcdefghijklmnopqrstuvwxyz"
)

// NodeDescriptor is one node's slot in the launch_cluster payload.
type NodeDescriptor struct {
	NodeID int `json:"node_id"`

	// Producer identities hosted by this node; omitted for non-producer nodes
	Producers []string `json:"producers,omitempty"`
}

// Topology is the deterministic partition of producer identities across the
// cluster's nodes. Built once from the cluster params and immutable afterward.
type Topology struct {
	Nodes []*NodeDescriptor

	// Maps each generated producer identity to the node ID hosting it; the
	// reserved identity is tracked on node 0's descriptor only
	Assignment map[string]int
}

// Build partitions totalProducers generated identities across the first
// producerNodes nodes. With q, r = divmod(totalProducers, producerNodes),
// node 0 carries the letter slice [0, q+r) plus the reserved identity, and
// node i>0 carries [i*q+r, (i+1)*q+r). Identity names follow a single global
// letter sequence, so identical inputs always produce identical output; the
// genesis state of repeated test runs depends on this.
func Build(totalNodes int, totalProducers int, producerNodes int) *Topology {
	topology := &Topology{
		Nodes:      []*NodeDescriptor{},
		Assignment: map[string]int{},
	}

	quotient, remainder := 0, 0
	if producerNodes > 0 {
		quotient = totalProducers / producerNodes
		remainder = totalProducers % producerNodes
	}

	for i := 0; i < totalNodes; i++ {
		node := &NodeDescriptor{NodeID: i}
		if i < producerNodes {
			producers := []string{}
			sliceStart := i*quotient + remainder
			if i == 0 {
				producers = append(producers, ReservedProducerName)
				sliceStart = 0
			}
			sliceEnd := (i+1)*quotient + remainder
			for j := sliceStart; j < sliceEnd; j++ {
				name := producerNamePrefix + string(producerNameAlphabet[j])
				producers = append(producers, name)
				topology.Assignment[name] = i
			}
			node.Producers = producers
		}
		topology.Nodes = append(topology.Nodes, node)
	}

	return topology
}
