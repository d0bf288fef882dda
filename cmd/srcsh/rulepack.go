package main

import "srcsh/internal/lint"

// loadAndRegisterPack loads a YAML rule pack from path and registers its
// rules into the linter's process-global rule set. Safe to call more than
// once per process; a pack rule whose code collides with the fixed table
// is silently dropped per lint.RegisterPack's contract.
func loadAndRegisterPack(path string) error {
	pack, err := lint.LoadRulePack(path)
	if err != nil {
		return err
	}
	return lint.RegisterPack(pack)
}
