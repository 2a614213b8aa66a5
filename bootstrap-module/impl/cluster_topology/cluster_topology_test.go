package cluster_topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildEvenPartition(t *testing.T) {
	// q=1, r=0: one generated producer per node
	topology := Build(4, 4, 4)

	require.Len(t, topology.Nodes, 4)
	require.Equal(t, []string{"eosio", "defproducera"}, topology.Nodes[0].Producers)
	require.Equal(t, []string{"defproducerb"}, topology.Nodes[1].Producers)
	require.Equal(t, []string{"defproducerc"}, topology.Nodes[2].Producers)
	require.Equal(t, []string{"defproducerd"}, topology.Nodes[3].Producers)
}

func TestBuildRemainderFrontLoadedOnNodeZero(t *testing.T) {
	// q=2, r=1: node 0 takes letters [0,3), node 1 takes [3,5)
	topology := Build(2, 5, 2)

	require.Equal(t, []string{"eosio", "defproducera", "defproducerb", "defproducerc"}, topology.Nodes[0].Producers)
	require.Equal(t, []string{"defproducerd", "defproducere"}, topology.Nodes[1].Producers)
}

func TestBuildNonProducerNodesCarryNoProducers(t *testing.T) {
	topology := Build(6, 4, 2)

	for i := 2; i < 6; i++ {
		require.Equal(t, i, topology.Nodes[i].NodeID)
		require.Nil(t, topology.Nodes[i].Producers)
	}
}

func TestBuildAssignmentIsCompleteAndConsistent(t *testing.T) {
	totalProducers := 11
	producerNodes := 3
	topology := Build(5, totalProducers, producerNodes)

	// Every generated identity is assigned exactly once, to a producer node
	require.Len(t, topology.Assignment, totalProducers)
	for name, nodeID := range topology.Assignment {
		require.GreaterOrEqual(t, nodeID, 0)
		require.Less(t, nodeID, producerNodes)
		require.Contains(t, topology.Nodes[nodeID].Producers, name)
	}

	// The reserved identity is tracked on node 0's descriptor, not in the map
	require.NotContains(t, topology.Assignment, ReservedProducerName)
	require.Contains(t, topology.Nodes[0].Producers, ReservedProducerName)

	// Every producer node hosts at least one generated identity
	hostingNodes := map[int]bool{}
	for _, nodeID := range topology.Assignment {
		hostingNodes[nodeID] = true
	}
	require.Len(t, hostingNodes, producerNodes)
}

func TestBuildIsDeterministic(t *testing.T) {
	first := Build(7, 13, 4)
	second := Build(7, 13, 4)
	require.Equal(t, first, second)
}

func TestBuildZeroProducerNodes(t *testing.T) {
	topology := Build(3, 0, 0)

	require.Len(t, topology.Nodes, 3)
	require.Empty(t, topology.Assignment)
	for _, node := range topology.Nodes {
		require.Nil(t, node.Producers)
	}
}
