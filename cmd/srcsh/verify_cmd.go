package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"srcsh/internal/pipeline"
	"srcsh/internal/proof"
	"srcsh/internal/verify"
)

func newVerifyCmd() *cobra.Command {
	var f configFlags
	var proofPath string
	cmd := &cobra.Command{
		Use:   "verify <file.src>",
		Short: "Run the verifier's gated properties and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve()
			if err != nil {
				return codedError{exitUsage, err}
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return codedError{exitUsage, err}
			}
			format, err := parseFormat(f.format)
			if err != nil {
				return codedError{exitUsage, err}
			}
			r := pipeline.Compile(args[0], string(src), cfg)
			r.Verify(cfg)
			renderDiagnostics(os.Stderr, args[0], string(src), r.Diags, format)

			if cfg.EmitProof && r.Program != nil {
				results := verify.Summarize(r.Program, r.Diags)
				artifact := proof.Build(results, uuid.New().String())
				data, err := artifact.Marshal()
				if err != nil {
					return codedError{exitBug, err}
				}
				path := proofPath
				if path == "" {
					path = args[0] + ".proof.json"
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return codedError{exitUsage, err}
				}
			}

			lastExitCode = exitCodeFor(r.Diags)
			return nil
		},
	}
	addConfigFlags(cmd, &f)
	cmd.Flags().StringVar(&proofPath, "proof-out", "", "write the proof artifact here (default <file>.proof.json)")
	return cmd
}
