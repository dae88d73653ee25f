package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholders understood in the arguments of a registered solver.
const (
	PlaceholderCNF     = "cnf"
	PlaceholderResult  = "result"
	PlaceholderProgram = "program"
)

// SolverConfig describes an external program.
type SolverConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of solvers.yaml.
type ConfigFile struct {
	Solvers []SolverConfig `yaml:"solvers" json:"solvers"`
}

// DefaultSolvers are the programs registered when no file overrides them.
// They follow the minisat command line: solver [options] input result.
func DefaultSolvers() map[string]SolverConfig {
	return map[string]SolverConfig{
		"minisat": {
			Name: "minisat", Command: "minisat",
			Args:        []string{"-verb=0", "{cnf}", "{result}"},
			Description: "MiniSat 2",
		},
		"glucose": {
			Name: "glucose", Command: "glucose",
			Args:        []string{"-verb=0", "{cnf}", "{result}"},
			Description: "Glucose 4",
		},
		"clingo": {
			Name: "clingo", Command: "clingo",
			Args:        []string{"{program}"},
			Description: "answer set solver for the ASP encoding",
		},
	}
}

// LoadSolvers reads a configuration file (YAML or JSON) and returns a map of
// solver names to configs. A missing file yields an empty map.
func LoadSolvers(path string) (map[string]SolverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]SolverConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read solvers config: %w", err)
	}

	var cfg ConfigFile
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	solvers := make(map[string]SolverConfig)
	for _, s := range cfg.Solvers {
		if s.Name == "" {
			continue
		}
		if s.Command == "" {
			return nil, fmt.Errorf("solver %q: missing command", s.Name)
		}
		solvers[s.Name] = s
	}

	return solvers, nil
}
