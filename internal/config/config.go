// Package config provides scenario configuration loading for seirnet.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nvandessel/seirnet/internal/ensemble"
	"github.com/nvandessel/seirnet/internal/seir"
	"github.com/nvandessel/seirnet/internal/transition"
	"gopkg.in/yaml.v3"
)

// Config contains all settings for one simulation scenario.
type Config struct {
	// Population describes the contact network to build.
	Population PopulationConfig `json:"population" yaml:"population"`

	// Disease holds the SEIR transition parameters.
	Disease DiseaseConfig `json:"disease" yaml:"disease"`

	// Run controls the ensemble: replicate count, day count, seeding.
	Run RunConfig `json:"run" yaml:"run"`

	// Logging configures operational log output.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// PopulationConfig describes the contact network.
type PopulationConfig struct {
	// TotalUnits is the population size N.
	TotalUnits int `json:"total_units" yaml:"total_units"`

	// AverageContacts is the attachment width k of the builder.
	AverageContacts int `json:"average_contacts" yaml:"average_contacts"`

	// ClusteringProbability is the triangle-closing probability p.
	ClusteringProbability float64 `json:"clustering_probability" yaml:"clustering_probability"`
}

// DiseaseConfig holds the SEIR transition parameters.
type DiseaseConfig struct {
	// LatentPeriod is the number of days spent exposed (alpha).
	LatentPeriod int `json:"latent_period" yaml:"latent_period"`

	// TransmissionProbability is the pairwise per-day transmission
	// probability (beta).
	TransmissionProbability float64 `json:"transmission_probability" yaml:"transmission_probability"`

	// InfectiousPeriod is the infectious dwell threshold (gamma).
	InfectiousPeriod int `json:"infectious_period" yaml:"infectious_period"`
}

// RunConfig controls the ensemble run.
type RunConfig struct {
	// NumInfUnit is the number of seed draws marked exposed per replicate.
	NumInfUnit int `json:"num_inf_unit" yaml:"num_inf_unit"`

	// SeedPolicy selects seed sampling: "without-replacement" (default)
	// or "with-replacement".
	SeedPolicy string `json:"seed_policy,omitempty" yaml:"seed_policy,omitempty"`

	// NumSimulation is the number of independent replicates.
	NumSimulation int `json:"num_simulation" yaml:"num_simulation"`

	// NumDays is the number of simulated days per replicate.
	NumDays int `json:"num_days" yaml:"num_days"`

	// Seed is the base random seed; each replicate derives its private
	// stream from it and its replicate index.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Workers bounds concurrent replicates; 0 means GOMAXPROCS.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// SnapshotReplicate is the replicate whose per-day snapshots are
	// kept for visualization; -1 disables capture.
	SnapshotReplicate int `json:"snapshot_replicate" yaml:"snapshot_replicate"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults: a thousand-node
// clustered network and a moderate outbreak ensemble.
func Default() *Config {
	return &Config{
		Population: PopulationConfig{
			TotalUnits:            1000,
			AverageContacts:       8,
			ClusteringProbability: 0.4,
		},
		Disease: DiseaseConfig{
			LatentPeriod:            5,
			TransmissionProbability: 0.05,
			InfectiousPeriod:        7,
		},
		Run: RunConfig{
			NumInfUnit:        5,
			SeedPolicy:        string(ensemble.SeedWithoutReplacement),
			NumSimulation:     25,
			NumDays:           100,
			Seed:              1,
			Workers:           0,
			SnapshotReplicate: -1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the given path, or defaults when the
// path is empty, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}

	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Fields
// absent from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks every parameter against its documented domain.
func (c *Config) Validate() error {
	if c.Population.TotalUnits <= 0 {
		return fmt.Errorf("%w: total_units must be positive, got %d",
			seir.ErrConfiguration, c.Population.TotalUnits)
	}
	if c.Population.AverageContacts <= 0 {
		return fmt.Errorf("%w: average_contacts must be positive, got %d",
			seir.ErrConfiguration, c.Population.AverageContacts)
	}
	if p := c.Population.ClusteringProbability; p < 0 || p > 1 {
		return fmt.Errorf("%w: clustering_probability must be in [0,1], got %g",
			seir.ErrConfiguration, p)
	}
	if c.Run.NumInfUnit < 0 || c.Run.NumInfUnit > c.Population.TotalUnits {
		return fmt.Errorf("%w: num_inf_unit must be between 0 and total_units, got %d",
			seir.ErrConfiguration, c.Run.NumInfUnit)
	}
	if c.Disease.LatentPeriod < 0 {
		return fmt.Errorf("%w: latent_period must be non-negative, got %d",
			seir.ErrConfiguration, c.Disease.LatentPeriod)
	}
	if b := c.Disease.TransmissionProbability; b < 0 || b > 1 {
		return fmt.Errorf("%w: transmission_probability must be in [0,1], got %g",
			seir.ErrConfiguration, b)
	}
	if c.Disease.InfectiousPeriod < 0 {
		return fmt.Errorf("%w: infectious_period must be non-negative, got %d",
			seir.ErrConfiguration, c.Disease.InfectiousPeriod)
	}
	if c.Run.NumSimulation <= 0 {
		return fmt.Errorf("%w: num_simulation must be positive, got %d",
			seir.ErrConfiguration, c.Run.NumSimulation)
	}
	if c.Run.NumDays < 0 {
		return fmt.Errorf("%w: num_days must be non-negative, got %d",
			seir.ErrConfiguration, c.Run.NumDays)
	}
	if c.Run.SeedPolicy != "" && !ensemble.SeedPolicy(c.Run.SeedPolicy).Valid() {
		return fmt.Errorf("%w: invalid seed_policy %q (valid: %s, %s)",
			seir.ErrConfiguration, c.Run.SeedPolicy,
			ensemble.SeedWithoutReplacement, ensemble.SeedWithReplacement)
	}
	if r := c.Run.SnapshotReplicate; r < -1 || r >= c.Run.NumSimulation {
		return fmt.Errorf("%w: snapshot_replicate %d must be -1 or a replicate index below num_simulation",
			seir.ErrConfiguration, r)
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("%w: invalid log level %q (valid: info, debug, trace, or empty for default)",
			seir.ErrConfiguration, c.Logging.Level)
	}

	return nil
}

// Params maps the disease section onto transition engine parameters.
func (c *Config) Params() transition.Params {
	return transition.Params{
		TransmissionProbability: c.Disease.TransmissionProbability,
		LatentPeriod:            c.Disease.LatentPeriod,
		InfectiousPeriod:        c.Disease.InfectiousPeriod,
	}
}

// EnsembleOptions maps the run section onto orchestrator options.
func (c *Config) EnsembleOptions() ensemble.Options {
	return ensemble.Options{
		SeedNodes:         c.Run.NumInfUnit,
		Days:              c.Run.NumDays,
		Replicates:        c.Run.NumSimulation,
		BaseSeed:          c.Run.Seed,
		Policy:            ensemble.SeedPolicy(c.Run.SeedPolicy),
		Workers:           c.Run.Workers,
		SnapshotReplicate: c.Run.SnapshotReplicate,
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SEIRNET_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("SEIRNET_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Run.Seed = n
		}
	}

	if v := os.Getenv("SEIRNET_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Run.Workers = n
		}
	}
}
