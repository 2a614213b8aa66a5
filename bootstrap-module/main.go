package main

import (
	"fmt"
	"os"

	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/bootstrap_sequencer"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/cluster_topology"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/console_reporter"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/launcher_rest_client"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/module_io"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/process_inspector"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/service_lifecycle"
	"github.com/kurtosis-tech/stacktrace"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	successExitCode = 0
	failureExitCode = 1

	addressFlag        = "address"
	portFlag           = "port"
	dirFlag            = "dir"
	fileFlag           = "file"
	startFlag          = "start"
	killFlag           = "kill"
	verboseFlag        = "verbose"
	silentFlag         = "silent"
	monochromeFlag     = "monochrome"
	clusterIDFlag      = "cluster-id"
	topologyFlag       = "topology"
	totalNodesFlag     = "total-nodes"
	totalProducersFlag = "total-producers"
	producerNodesFlag  = "producer-nodes"
	unstartedNodesFlag = "unstarted-nodes"
	profileFlag        = "profile"
)

var (
	addressValue        string
	portValue           uint16
	dirValue            string
	fileValue           string
	startValue          bool
	killValue           bool
	verboseValue        int
	silentValue         bool
	monochromeValue     bool
	clusterIDValue      int
	topologyValue       string
	totalNodesValue     int
	totalProducersValue int
	producerNodesValue  int
	unstartedNodesValue int
	profileValue        string
)

var rootCmd = &cobra.Command{
	Use:           "cluster-bootstrap",
	Short:         "Launch and bootstrap a multi-node test cluster through the launcher service",
	Long:          "Ensures a local launcher service is reachable, computes the cluster's producer topology, and drives the ordered genesis bootstrap sequence against it.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&addressValue, addressFlag, "a", module_io.DefaultAddress, "Address of launcher service")
	flags.Uint16VarP(&portValue, portFlag, "p", module_io.DefaultPort, "Listening port of launcher service")
	flags.StringVarP(&dirValue, dirFlag, "d", module_io.DefaultDir, "Working directory")
	flags.StringVarP(&fileValue, fileFlag, "f", module_io.DefaultFile, "Path to local launcher service file")
	flags.BoolVarP(&startValue, startFlag, "s", module_io.DefaultStart, "Always start a new launcher service")
	flags.BoolVarP(&killValue, killFlag, "k", module_io.DefaultKill, "Kill existing launcher services (if any)")
	flags.CountVarP(&verboseValue, verboseFlag, "v", "Verbosity level (-v for 1, -vv for 2, ...)")
	flags.BoolVarP(&silentValue, silentFlag, "x", false, "Set verbosity level at 0 (keep silent)")
	flags.BoolVarP(&monochromeValue, monochromeFlag, "m", module_io.DefaultMonochrome, "Print in black and white instead of colors")
	flags.IntVarP(&clusterIDValue, clusterIDFlag, "i", module_io.DefaultClusterID, "Cluster ID to launch with")
	flags.StringVarP(&topologyValue, topologyFlag, "t", module_io.DefaultTopology, "Cluster topology to launch with")
	flags.IntVarP(&totalNodesValue, totalNodesFlag, "n", module_io.DefaultTotalNodes, "Number of total nodes")
	flags.IntVarP(&totalProducersValue, totalProducersFlag, "y", module_io.DefaultTotalProducers, "Number of total producers")
	flags.IntVarP(&producerNodesValue, producerNodesFlag, "z", module_io.DefaultProducerNodes, "Number of nodes that have producers")
	flags.IntVarP(&unstartedNodesValue, unstartedNodesFlag, "u", module_io.DefaultUnstartedNodes, "Number of unstarted nodes")
	flags.StringVar(&profileValue, profileFlag, "", "Path to a YAML profile supplying caller-level overrides")
	rootCmd.MarkFlagsMutuallyExclusive(verboseFlag, silentFlag)
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	var callerService *module_io.OptionalServiceParams
	var callerCluster *module_io.OptionalClusterParams
	if profileValue != "" {
		profile, err := module_io.LoadProfile(profileValue)
		if err != nil {
			return stacktrace.Propagate(err, "An error occurred loading profile '%v'", profileValue)
		}
		callerService = profile.ServiceValues()
		callerCluster = profile.ClusterValues()
	}

	serviceParams, err := module_io.NewServiceParams(callerService, cliServiceValues(flags))
	if err != nil {
		return stacktrace.Propagate(err, "An error occurred resolving the service configuration")
	}
	clusterParams, err := module_io.NewClusterParams(callerCluster, cliClusterValues(flags))
	if err != nil {
		return stacktrace.Propagate(err, "An error occurred resolving the cluster configuration")
	}

	reporter := console_reporter.NewConsoleReporter(serviceParams.Verbosity, serviceParams.Monochrome)
	reporter.SystemInfo()
	printServiceConfig(reporter, serviceParams)
	printClusterConfig(reporter, clusterParams)

	reporter.Section("connect to launcher service")
	manager := service_lifecycle.NewManager(process_inspector.NewExecInspector(), service_lifecycle.DefaultSpawn)
	resolvedParams, err := manager.Ensure(serviceParams)
	if err != nil {
		return stacktrace.Propagate(err, "An error occurred ensuring a reachable launcher service")
	}

	topology := cluster_topology.Build(clusterParams.TotalNodes, clusterParams.TotalProducers, clusterParams.ProducerNodes)
	client := launcher_rest_client.NewLauncherRESTClient(resolvedParams.Address, resolvedParams.Port, reporter)
	sequencer := bootstrap_sequencer.NewSequencer(client, clusterParams, topology)
	return sequencer.Bootstrap()
}

// Only flags the user actually changed enter the override chain; everything
// else falls through to the profile layer and the built-in defaults.
func cliServiceValues(flags *pflag.FlagSet) *module_io.OptionalServiceParams {
	values := &module_io.OptionalServiceParams{}
	if flags.Changed(addressFlag) {
		values.Address = &addressValue
	}
	if flags.Changed(portFlag) {
		values.Port = &portValue
	}
	if flags.Changed(dirFlag) {
		values.Dir = &dirValue
	}
	if flags.Changed(fileFlag) {
		values.File = &fileValue
	}
	if flags.Changed(startFlag) {
		values.Start = &startValue
	}
	if flags.Changed(killFlag) {
		values.Kill = &killValue
	}
	if flags.Changed(silentFlag) {
		silenced := 0
		values.Verbosity = &silenced
	} else if flags.Changed(verboseFlag) {
		values.Verbosity = &verboseValue
	}
	if flags.Changed(monochromeFlag) {
		values.Monochrome = &monochromeValue
	}
	return values
}

func cliClusterValues(flags *pflag.FlagSet) *module_io.OptionalClusterParams {
	values := &module_io.OptionalClusterParams{}
	if flags.Changed(clusterIDFlag) {
		values.ClusterID = &clusterIDValue
	}
	if flags.Changed(topologyFlag) {
		values.Topology = &topologyValue
	}
	if flags.Changed(totalNodesFlag) {
		values.TotalNodes = &totalNodesValue
	}
	if flags.Changed(totalProducersFlag) {
		values.TotalProducers = &totalProducersValue
	}
	if flags.Changed(producerNodesFlag) {
		values.ProducerNodes = &producerNodesValue
	}
	if flags.Changed(unstartedNodesFlag) {
		values.UnstartedNodes = &unstartedNodesValue
	}
	return values
}

func printServiceConfig(reporter *console_reporter.ConsoleReporter, params *module_io.ServiceParams) {
	reporter.Section("service configuration")
	reporter.ConfigEntry("-a: address", "Address of launcher service", params.Address, module_io.DefaultAddress)
	reporter.ConfigEntry("-p: port", "Listening port of launcher service", params.Port, module_io.DefaultPort)
	reporter.ConfigEntry("-d: dir", "Working directory", params.Dir, module_io.DefaultDir)
	reporter.ConfigEntry("-f: file", "Path to local launcher service file", params.File, module_io.DefaultFile)
	reporter.ConfigEntry("-s: start", "Always start a new launcher service", params.Start, module_io.DefaultStart)
	reporter.ConfigEntry("-k: kill", "Kill existing launcher services (if any)", params.Kill, module_io.DefaultKill)
	reporter.ConfigEntry("-v: verbose", "Verbosity level", params.Verbosity, module_io.DefaultVerbosity)
	reporter.ConfigEntry("-m: monochrome", "Print in black and white instead of colors", params.Monochrome, module_io.DefaultMonochrome)
}

func printClusterConfig(reporter *console_reporter.ConsoleReporter, params *module_io.ClusterParams) {
	reporter.Section("cluster configuration")
	reporter.ConfigEntry("-i: cluster_id", "Cluster ID to launch with", params.ClusterID, module_io.DefaultClusterID)
	reporter.ConfigEntry("-t: topology", "Cluster topology to launch with", params.Topology, module_io.DefaultTopology)
	reporter.ConfigEntry("-n: total_nodes", "Number of total nodes", params.TotalNodes, module_io.DefaultTotalNodes)
	reporter.ConfigEntry("-y: total_producers", "Number of total producers", params.TotalProducers, module_io.DefaultTotalProducers)
	reporter.ConfigEntry("-z: producer_nodes", "Number of nodes that have producers", params.ProducerNodes, module_io.DefaultProducerNodes)
	reporter.ConfigEntry("-u: unstarted_nodes", "Number of unstarted nodes", params.UnstartedNodes, module_io.DefaultUnstartedNodes)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("An error occurred bootstrapping the cluster:")
		fmt.Fprintln(logrus.StandardLogger().Out, err)
		os.Exit(failureExitCode)
	}
	os.Exit(successExitCode)
}
