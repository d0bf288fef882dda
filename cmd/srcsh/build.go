package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"srcsh/internal/diag"
	"srcsh/internal/pipeline"
	"srcsh/internal/proof"
	"srcsh/internal/verify"
)

func newBuildCmd() *cobra.Command {
	var f configFlags
	var outPath string
	var proofPath string

	cmd := &cobra.Command{
		Use:   "build <file.src>",
		Short: "Compile a SrcLang program to a POSIX shell script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve()
			if err != nil {
				return codedError{exitUsage, err}
			}
			for _, p := range f.rulePacks {
				if err := loadAndRegisterPack(p); err != nil {
					return codedError{exitUsage, err}
				}
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
			if err := r.Emit(cfg); err != nil {
				renderDiagnostics(os.Stderr, args[0], string(src), r.Diags, format)
				return codedError{exitBugForError(r.Diags, err), err}
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return codedError{exitUsage, err}
				}
				defer f.Close()
				out = f
			}
			if _, err := out.Write(r.Script); err != nil {
				return codedError{exitBug, err}
			}

			if cfg.EmitProof {
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

			renderDiagnostics(os.Stderr, args[0], string(src), r.Diags, format)
			lastExitCode = exitCodeFor(r.Diags)
			return nil
		},
	}
	addConfigFlags(cmd, &f)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the script here instead of stdout")
	cmd.Flags().StringVar(&proofPath, "proof-out", "", "write the proof artifact here (default <file>.proof.json)")
	return cmd
}

// exitBugForError distinguishes the emitter's own BUG-class self-check
// failure (diag.CodeEmitterSelfCheck) from an ordinary "can't emit, an
// earlier stage already failed" error: only the former is a genuine
// internal bug.
func exitBugForError(diags diag.List, err error) int {
	for _, d := range diags {
		if d.Code == diag.CodeEmitterSelfCheck {
			return exitBug
		}
	}
	if diags.HasErrors() {
		return exitErrors
	}
	return exitBug
}

