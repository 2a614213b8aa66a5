package module_io

import (
	"github.com/kurtosis-tech/stacktrace"
	"github.com/sirupsen/logrus"
)

const (
	DefaultClusterID      = 0
	DefaultTopology       = "mesh"
	DefaultTotalNodes     = 4
	DefaultTotalProducers = 4
	DefaultProducerNodes  = 4
	DefaultUnstartedNodes = 0

	// One lowercase letter per generated producer name
	maxTotalProducers = 26
)

// Shape and sizing of the cluster to launch. Immutable after construction-time
// reconciliation.
type ClusterParams struct {
	// Cluster ID to launch with
	ClusterID int `json:"cluster_id"`

	// Connectivity shape requested for inter-node networking, e.g. "mesh"
	Topology string `json:"topology"`

	// Number of total nodes
	TotalNodes int `json:"total_nodes"`

	// Number of total producers
	TotalProducers int `json:"total_producers"`

	// Number of nodes that host producers
	ProducerNodes int `json:"producer_nodes"`

	// Number of nodes left unstarted
	UnstartedNodes int `json:"unstarted_nodes"`
}

// The caller-value and CLI-value layers of the override chain; nil means the
// layer doesn't set the field.
type OptionalClusterParams struct {
	ClusterID      *int
	Topology       *string
	TotalNodes     *int
	TotalProducers *int
	ProducerNodes  *int
	UnstartedNodes *int
}

// NewClusterParams resolves every cluster setting through the override chain,
// reconciles the producer-node count against the producer count, and validates
// the result. Validation failures are fatal and happen before any network
// activity.
func NewClusterParams(callerValues *OptionalClusterParams, cliValues *OptionalClusterParams) (*ClusterParams, error) {
	if callerValues == nil {
		callerValues = &OptionalClusterParams{}
	}
	if cliValues == nil {
		cliValues = &OptionalClusterParams{}
	}

	params := &ClusterParams{
		ClusterID:      Resolve(DefaultClusterID, callerValues.ClusterID, cliValues.ClusterID),
		Topology:       Resolve(DefaultTopology, callerValues.Topology, cliValues.Topology),
		TotalNodes:     Resolve(DefaultTotalNodes, callerValues.TotalNodes, cliValues.TotalNodes),
		TotalProducers: Resolve(DefaultTotalProducers, callerValues.TotalProducers, cliValues.TotalProducers),
		ProducerNodes:  Resolve(DefaultProducerNodes, callerValues.ProducerNodes, cliValues.ProducerNodes),
		UnstartedNodes: Resolve(DefaultUnstartedNodes, callerValues.UnstartedNodes, cliValues.UnstartedNodes),
	}

	// More producer nodes than producers isn't an error: total_producers takes
	// priority and the producer-node count is clamped down to it
	if params.ProducerNodes > params.TotalProducers {
		logrus.Warnf(
			"Conflict in cluster configuration: producer nodes (%v) exceeds total producers (%v); clamping producer nodes to %v",
			params.ProducerNodes,
			params.TotalProducers,
			params.TotalProducers,
		)
		params.ProducerNodes = params.TotalProducers
	}

	if err := params.validate(); err != nil {
		return nil, stacktrace.Propagate(err, "The resolved cluster configuration is invalid")
	}
	return params, nil
}

func (params *ClusterParams) validate() error {
	if params.ClusterID < 0 {
		return stacktrace.NewError("Cluster ID '%v' must not be negative", params.ClusterID)
	}
	if params.TotalProducers < 0 || params.ProducerNodes < 0 || params.UnstartedNodes < 0 || params.TotalNodes < 0 {
		return stacktrace.NewError("Node and producer counts must not be negative")
	}
	if params.TotalProducers > 0 && params.ProducerNodes == 0 {
		return stacktrace.NewError(
			"Total producers '%v' cannot be hosted with zero producer nodes",
			params.TotalProducers,
		)
	}
	if params.TotalProducers > maxTotalProducers {
		return stacktrace.NewError(
			"Total producers '%v' exceeds the maximum of %v (one letter per producer name)",
			params.TotalProducers,
			maxTotalProducers,
		)
	}
	if params.TotalNodes < params.ProducerNodes+params.UnstartedNodes {
		return stacktrace.NewError(
			"Total nodes '%v' is fewer than producer nodes '%v' plus unstarted nodes '%v'",
			params.TotalNodes,
			params.ProducerNodes,
			params.UnstartedNodes,
		)
	}
	return nil
}
