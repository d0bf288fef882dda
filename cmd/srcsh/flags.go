package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"srcsh/internal/config"
	"srcsh/internal/diag"
)

// configFlags holds the CLI-bound mirror of config.Config; cobra needs
// concrete flag variables, so this struct exists purely to give Execute
// somewhere to park them before resolve() builds the real record.
type configFlags struct {
	target           string
	verifyLevel      string
	optimize         bool
	emitProof        bool
	maxIterations    uint32
	maxFixIterations int
	maxRangeLength   uint64
	unsafeFixes      []string
	rulePacks        []string
	format           string
}

func addConfigFlags(cmd *cobra.Command, f *configFlags) {
	cmd.Flags().StringVar(&f.target, "target", string(config.DialectPOSIX), "target shell dialect for cross-shell verification: posix|bash|dash|ash")
	cmd.Flags().StringVar(&f.verifyLevel, "verify", "basic", "verification level: none|basic|strict|paranoid")
	cmd.Flags().BoolVar(&f.optimize, "optimize", false, "run the optimizer regardless of verify level's default")
	cmd.Flags().BoolVar(&f.emitProof, "emit-proof", false, "emit a proof artifact alongside the script")
	cmd.Flags().Uint32Var(&f.maxIterations, "max-iterations", config.Default().MaxIterations, "default max_iterations guard for unbounded while loops")
	cmd.Flags().IntVar(&f.maxFixIterations, "max-fix-iterations", config.Default().MaxFixIterations, "purifier fixpoint bound")
	cmd.Flags().Uint64Var(&f.maxRangeLength, "max-range-length", config.Default().MaxRangeLength, "resource-bounded verifier's static for-range length ceiling")
	cmd.Flags().StringSliceVar(&f.unsafeFixes, "unsafe-fix", nil, "lint rule codes the purifier may auto-fix even though they can change semantics")
	cmd.Flags().StringSliceVar(&f.rulePacks, "rule-pack", nil, "path to a YAML rule pack to load before linting/purifying")
	cmd.Flags().StringVar(&f.format, "format", "text", "diagnostic output format: text|json|sarif")
}

// parseFormat validates a --format flag value against the three formats
// diag.Renderer supports.
func parseFormat(s string) (diag.Format, error) {
	switch diag.Format(s) {
	case diag.FormatText, diag.FormatJSON, diag.FormatSARIF:
		return diag.Format(s), nil
	default:
		return "", fmt.Errorf("unknown --format %q: want text, json, or sarif", s)
	}
}

func (f *configFlags) resolve() (config.Config, error) {
	level, err := config.ParseVerifyLevel(f.verifyLevel)
	if err != nil {
		return config.Config{}, err
	}
	target, err := config.ParseDialect(f.target)
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.Default().WithLevel(level)
	cfg.Target = target
	if f.optimize {
		cfg.Optimize = true
	}
	cfg.EmitProof = f.emitProof
	cfg.MaxIterations = f.maxIterations
	cfg.MaxFixIterations = f.maxFixIterations
	cfg.MaxRangeLength = f.maxRangeLength
	cfg.UnsafeFixes = f.unsafeFixes
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
