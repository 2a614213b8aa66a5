package bootstrap_sequencer

import (
	"errors"
	"time"

	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/cluster_topology"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/launcher_rest_client"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/module_io"
	"github.com/kurtosis-tech/stacktrace"
)

const (
	launchClusterEndpoint      = "launch_cluster"
	getClusterInfoEndpoint     = "get_cluster_info"
	createBiosAccountsEndpoint = "create_bios_accounts"

	defaultNumRetries         = uint32(5)
	defaultTimeBetweenRetries = 1 * time.Second
)

// The ten reserved system accounts created at genesis, owned by the reserved
// bootstrap identity
var biosAccountNames = []string{
	"eosio.bpay",
	"eosio.msig",
	"eosio.names",
	"eosio.ram",
	"eosio.ramfee",
	"eosio.rex",
	"eosio.saving",
	"eosio.stake",
	"eosio.token",
	"eosio.upay",
}

// The verify_transaction contract is not settled yet, so verification is
// deliberately not guessed at here.
var ErrVerificationNotSupported = errors.New("transaction verification is not supported")

type launchClusterPayload struct {
	ClusterID int                                `json:"cluster_id"`
	NodeCount int                                `json:"node_count"`
	Shape     string                             `json:"shape"`
	Nodes     []*cluster_topology.NodeDescriptor `json:"nodes"`
}

type getClusterInfoPayload struct {
	ClusterID int `json:"cluster_id"`
}

type accountParam struct {
	Name string `json:"name"`
}

type createBiosAccountsPayload struct {
	ClusterID int            `json:"cluster_id"`
	Creator   string         `json:"creator"`
	Accounts  []accountParam `json:"accounts"`
}

// Sequencer issues the ordered RPC sequence that brings a freshly launched
// cluster from empty state to having its genesis system accounts created.
// Each step gets its own retry budget and is fatal on exhaustion; a failed
// step aborts the rest of the sequence with no partial-cluster cleanup.
type Sequencer struct {
	client             *launcher_rest_client.LauncherRESTClient
	params             *module_io.ClusterParams
	topology           *cluster_topology.Topology
	numRetries         uint32
	timeBetweenRetries time.Duration
}

func NewSequencer(
	client *launcher_rest_client.LauncherRESTClient,
	params *module_io.ClusterParams,
	topology *cluster_topology.Topology,
) *Sequencer {
	return NewSequencerWithRetryPolicy(client, params, topology, defaultNumRetries, defaultTimeBetweenRetries)
}

func NewSequencerWithRetryPolicy(
	client *launcher_rest_client.LauncherRESTClient,
	params *module_io.ClusterParams,
	topology *cluster_topology.Topology,
	numRetries uint32,
	timeBetweenRetries time.Duration,
) *Sequencer {
	return &Sequencer{
		client:             client,
		params:             params,
		topology:           topology,
		numRetries:         numRetries,
		timeBetweenRetries: timeBetweenRetries,
	}
}

// Bootstrap runs the implemented steps of the full genesis sequence:
//  1. launch a cluster
//  2. get cluster info
//  3. create bios accounts
//
// The remaining steps (schedule protocol feature activations, set the
// eosio.token contract, create and issue tokens, set and init the system
// contract, create producer accounts, register producers, vote for producers,
// verify the head producer) are extension points to be added here, in order,
// once the service contract for each is settled.
func (sequencer *Sequencer) Bootstrap() error {
	if _, err := sequencer.LaunchCluster(); err != nil {
		return stacktrace.Propagate(err, "An error occurred launching the cluster")
	}
	if _, err := sequencer.GetClusterInfo(); err != nil {
		return stacktrace.Propagate(err, "An error occurred getting the cluster info")
	}
	if _, err := sequencer.CreateBiosAccounts(); err != nil {
		return stacktrace.Propagate(err, "An error occurred creating the bios accounts")
	}
	return nil
}

// LaunchCluster asks the service to allocate the node processes. Must succeed
// before any later step.
func (sequencer *Sequencer) LaunchCluster() (*launcher_rest_client.Attempt, error) {
	payload := &launchClusterPayload{
		ClusterID: sequencer.params.ClusterID,
		NodeCount: sequencer.params.TotalNodes,
		Shape:     sequencer.params.Topology,
		Nodes:     sequencer.topology.Nodes,
	}
	return sequencer.client.Call(launchClusterEndpoint, payload, sequencer.numRetries, sequencer.timeBetweenRetries)
}

// GetClusterInfo is read-only; it confirms the cluster is reachable before
// account creation.
func (sequencer *Sequencer) GetClusterInfo() (*launcher_rest_client.Attempt, error) {
	payload := &getClusterInfoPayload{
		ClusterID: sequencer.params.ClusterID,
	}
	return sequencer.client.Call(getClusterInfoEndpoint, payload, sequencer.numRetries, sequencer.timeBetweenRetries)
}

func (sequencer *Sequencer) CreateBiosAccounts() (*launcher_rest_client.Attempt, error) {
	accounts := make([]accountParam, 0, len(biosAccountNames))
	for _, name := range biosAccountNames {
		accounts = append(accounts, accountParam{Name: name})
	}
	payload := &createBiosAccountsPayload{
		ClusterID: sequencer.params.ClusterID,
		Creator:   cluster_topology.ReservedProducerName,
		Accounts:  accounts,
	}
	return sequencer.client.Call(createBiosAccountsEndpoint, payload, sequencer.numRetries, sequencer.timeBetweenRetries)
}

// VerifyTransaction is an extension point for the head-producer verification
// step.
func (sequencer *Sequencer) VerifyTransaction(transactionID string, nodeID int) error {
	return ErrVerificationNotSupported
}
