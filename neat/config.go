package neat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/baldhumanity/neat-genepool/neat/nn"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config error")

// Config stores the configuration parameters for the NEAT algorithm.
type Config struct {
	Neat         NeatConfig         `yaml:"neat"`
	Genome       GenomeConfig       `yaml:"genome"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	SpeciesSet   SpeciesSetConfig   `yaml:"species_set"`
	Stagnation   StagnationConfig   `yaml:"stagnation"`
}

// NeatConfig holds run-level parameters. Only PopSize is read by the gene
// pool; the rest is for drivers.
type NeatConfig struct {
	PopSize              int     `ini:"pop_size" yaml:"pop_size"`
	CorrectnessThreshold float64 `ini:"correctness_threshold" yaml:"correctness_threshold"` // percent
	MaxGenerations       int     `ini:"max_generations" yaml:"max_generations"`
	Seed                 int64   `ini:"seed" yaml:"seed"` // 0 = time seeded
}

// GenomeConfig holds parameters specific to the structure and mutation of genomes.
type GenomeConfig struct {
	NumInputs     int    `ini:"num_inputs" yaml:"num_inputs"`
	NumOutputs    int    `ini:"num_outputs" yaml:"num_outputs"`
	HiddenNodeCap int    `ini:"hidden_node_cap" yaml:"hidden_node_cap"`
	FeedForward   bool   `ini:"feed_forward" yaml:"feed_forward"` // If true, cycle-closing connections are declined
	Activation    string `ini:"activation" yaml:"activation"`
	Aggregation   string `ini:"aggregation" yaml:"aggregation"`

	// Initial values of the self-adapting per-genome mutation rates.
	Steps                        float64 `ini:"steps" yaml:"steps"`
	PerturbChance                float64 `ini:"perturb_chance" yaml:"perturb_chance"`
	WeightChance                 float64 `ini:"weight_chance" yaml:"weight_chance"`
	WeightMutationChance         float64 `ini:"weight_mutation_chance" yaml:"weight_mutation_chance"`
	NodeMutationChance           float64 `ini:"node_mutation_chance" yaml:"node_mutation_chance"`
	ConnectionMutationChance     float64 `ini:"connection_mutation_chance" yaml:"connection_mutation_chance"`
	BiasConnectionMutationChance float64 `ini:"bias_connection_mutation_chance" yaml:"bias_connection_mutation_chance"`
	DisableMutationChance        float64 `ini:"disable_mutation_chance" yaml:"disable_mutation_chance"`
	EnableMutationChance         float64 `ini:"enable_mutation_chance" yaml:"enable_mutation_chance"`
}

// Layout returns the node id space described by the config.
func (gc *GenomeConfig) Layout() nn.Layout {
	return nn.Layout{Inputs: gc.NumInputs, Outputs: gc.NumOutputs, HiddenCap: gc.HiddenNodeCap}
}

// ReproductionConfig holds parameters related to reproduction.
type ReproductionConfig struct {
	CrossoverChance float64 `ini:"crossover_chance" yaml:"crossover_chance"`
}

// SpeciesSetConfig holds parameters related to speciation.
type SpeciesSetConfig struct {
	CompatibilityThreshold float64 `ini:"compatibility_threshold" yaml:"compatibility_threshold"`
	ExcessCoefficient      float64 `ini:"excess_coefficient" yaml:"excess_coefficient"`
	DisjointCoefficient    float64 `ini:"disjoint_coefficient" yaml:"disjoint_coefficient"`
	WeightCoefficient      float64 `ini:"weight_coefficient" yaml:"weight_coefficient"`
}

// StagnationConfig holds parameters related to species and pool staleness.
type StagnationConfig struct {
	StaleSpecies int `ini:"stale_species" yaml:"stale_species"`
	StalePool    int `ini:"stale_pool" yaml:"stale_pool"`
}

// DefaultConfig returns the stock parameter set. It solves the one-input
// quadratic task out of the box.
func DefaultConfig() *Config {
	return &Config{
		Neat: NeatConfig{
			PopSize:              300,
			CorrectnessThreshold: 95,
			MaxGenerations:       5000,
		},
		Genome: GenomeConfig{
			NumInputs:                    1,
			NumOutputs:                   1,
			HiddenNodeCap:                1000000,
			FeedForward:                  true,
			Activation:                   "sigmoid",
			Aggregation:                  "sum",
			Steps:                        0.1,
			PerturbChance:                0.9,
			WeightChance:                 0.3,
			WeightMutationChance:         0.9,
			NodeMutationChance:           0.03,
			ConnectionMutationChance:     0.05,
			BiasConnectionMutationChance: 0.15,
			DisableMutationChance:        0.1,
			EnableMutationChance:         0.2,
		},
		Reproduction: ReproductionConfig{
			CrossoverChance: 0.75,
		},
		SpeciesSet: SpeciesSetConfig{
			CompatibilityThreshold: 1,
			ExcessCoefficient:      2,
			DisjointCoefficient:    2,
			WeightCoefficient:      0.4,
		},
		Stagnation: StagnationConfig{
			StaleSpecies: 15,
			StalePool:    20,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file, or from YAML
// when the file has a .yaml/.yml extension. Keys absent from the file keep
// their DefaultConfig value.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := loadYAML(config, filePath); err != nil {
			return nil, err
		}
	default:
		if err := loadINI(config, filePath); err != nil {
			return nil, err
		}
	}

	config.Genome.Activation = cleanIniString(config.Genome.Activation)
	config.Genome.Aggregation = cleanIniString(config.Genome.Aggregation)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINI(config *Config, filePath string) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	sections := []struct {
		name   string
		target interface{}
	}{
		{"NEAT", &config.Neat},
		{"DefaultGenome", &config.Genome},
		{"DefaultReproduction", &config.Reproduction},
		{"DefaultSpeciesSet", &config.SpeciesSet},
		{"DefaultStagnation", &config.Stagnation},
	}
	for _, s := range sections {
		if !cfg.HasSection(s.name) {
			continue
		}
		if err := cfg.Section(s.name).MapTo(s.target); err != nil {
			return fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}
	return nil
}

func loadYAML(config *Config, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	return nil
}

// Validate checks the parameter ranges.
func (c *Config) Validate() error {
	g := c.Genome
	if c.Neat.PopSize <= 0 {
		return fmt.Errorf("%w: pop_size must be positive", ErrInvalidConfig)
	}
	if g.NumInputs <= 0 {
		return fmt.Errorf("%w: num_inputs must be positive", ErrInvalidConfig)
	}
	if g.NumOutputs <= 0 {
		return fmt.Errorf("%w: num_outputs must be positive", ErrInvalidConfig)
	}
	// The bias node sits at id num_inputs, so a zero cap would put the first
	// output on top of it.
	if g.HiddenNodeCap <= 0 {
		return fmt.Errorf("%w: hidden_node_cap must be positive", ErrInvalidConfig)
	}
	if _, err := GetActivation(g.Activation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := GetAggregation(g.Aggregation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	chances := []struct {
		key string
		v   float64
	}{
		{"perturb_chance", g.PerturbChance},
		{"weight_chance", g.WeightChance},
		{"weight_mutation_chance", g.WeightMutationChance},
		{"node_mutation_chance", g.NodeMutationChance},
		{"connection_mutation_chance", g.ConnectionMutationChance},
		{"bias_connection_mutation_chance", g.BiasConnectionMutationChance},
		{"disable_mutation_chance", g.DisableMutationChance},
		{"enable_mutation_chance", g.EnableMutationChance},
		{"crossover_chance", c.Reproduction.CrossoverChance},
	}
	for _, ch := range chances {
		if ch.v < 0 || ch.v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidConfig, ch.key)
		}
	}
	if g.Steps < 0 {
		return fmt.Errorf("%w: steps cannot be negative", ErrInvalidConfig)
	}

	s := c.SpeciesSet
	// A genome is at distance 0 from itself and must share its own species.
	if s.CompatibilityThreshold <= 0 {
		return fmt.Errorf("%w: compatibility_threshold must be positive", ErrInvalidConfig)
	}
	if s.ExcessCoefficient < 0 || s.DisjointCoefficient < 0 || s.WeightCoefficient < 0 {
		return fmt.Errorf("%w: compatibility coefficients cannot be negative", ErrInvalidConfig)
	}
	if c.Stagnation.StaleSpecies <= 0 {
		return fmt.Errorf("%w: stale_species must be positive", ErrInvalidConfig)
	}
	if c.Stagnation.StalePool <= 0 {
		return fmt.Errorf("%w: stale_pool must be positive", ErrInvalidConfig)
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
