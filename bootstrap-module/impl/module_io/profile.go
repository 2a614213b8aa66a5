package module_io

import (
	"os"

	"github.com/kurtosis-tech/stacktrace"
	"gopkg.in/yaml.v3"
)

// A YAML profile supplies the caller-value layer of the override chain, so a
// profile value beats the built-in default but loses to an explicit CLI flag.
type Profile struct {
	Service serviceProfile `yaml:"service"`
	Cluster clusterProfile `yaml:"cluster"`
}

type serviceProfile struct {
	Address    *string `yaml:"address"`
	Port       *uint16 `yaml:"port"`
	Dir        *string `yaml:"dir"`
	File       *string `yaml:"file"`
	Start      *bool   `yaml:"start"`
	Kill       *bool   `yaml:"kill"`
	Verbosity  *int    `yaml:"verbosity"`
	Monochrome *bool   `yaml:"monochrome"`
}

type clusterProfile struct {
	ClusterID      *int    `yaml:"cluster_id"`
	Topology       *string `yaml:"topology"`
	TotalNodes     *int    `yaml:"total_nodes"`
	TotalProducers *int    `yaml:"total_producers"`
	ProducerNodes  *int    `yaml:"producer_nodes"`
	UnstartedNodes *int    `yaml:"unstarted_nodes"`
}

func LoadProfile(filepath string) (*Profile, error) {
	contents, err := os.ReadFile(filepath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred reading profile file '%v'", filepath)
	}
	return ParseProfile(contents)
}

func ParseProfile(contents []byte) (*Profile, error) {
	profile := &Profile{}
	if err := yaml.Unmarshal(contents, profile); err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred deserializing the profile YAML")
	}
	return profile, nil
}

func (profile *Profile) ServiceValues() *OptionalServiceParams {
	return &OptionalServiceParams{
		Address:    profile.Service.Address,
		Port:       profile.Service.Port,
		Dir:        profile.Service.Dir,
		File:       profile.Service.File,
		Start:      profile.Service.Start,
		Kill:       profile.Service.Kill,
		Verbosity:  profile.Service.Verbosity,
		Monochrome: profile.Service.Monochrome,
	}
}

func (profile *Profile) ClusterValues() *OptionalClusterParams {
	return &OptionalClusterParams{
		ClusterID:      profile.Cluster.ClusterID,
		Topology:       profile.Cluster.Topology,
		TotalNodes:     profile.Cluster.TotalNodes,
		TotalProducers: profile.Cluster.TotalProducers,
		ProducerNodes:  profile.Cluster.ProducerNodes,
		UnstartedNodes: profile.Cluster.UnstartedNodes,
	}
}
