package rast

// StdlibSignature describes one stdlib function's arity for validation
// purposes (spec.md §4.7). The actual lowering strategy per name lives in
// internal/lower, which imports this table so the two stay in lockstep
// without rast depending on lower.
type StdlibSignature struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 means unbounded
}

// StdlibFunctions is the fixed, versioned table of high-level stdlib names
// spec.md §4.7 enumerates. It is a read-only process global, initialized
// once (spec.md §5 "Shared resources").
var StdlibFunctions = map[string]StdlibSignature{
	"echo":           {"echo", 1, 1},
	"eprint":         {"eprint", 1, 1},
	"env":            {"env", 1, 1},
	"env_var_or":     {"env_var_or", 2, 2},
	"arg":            {"arg", 1, 1},
	"args":           {"args", 0, 0},
	"arg_count":      {"arg_count", 0, 0},
	"exit_code":      {"exit_code", 0, 0},
	"exec":           {"exec", 1, 1},
	"mkdir_p":        {"mkdir_p", 1, 1},
	"write_file":     {"write_file", 2, 2},
	"read_file":      {"read_file", 1, 1},
	"path_exists":    {"path_exists", 1, 1},
	"string_split":   {"string_split", 2, 2},
	"array_len":      {"array_len", 1, 1},
	"array_join":     {"array_join", 2, 2},
}

// IsStdlibName reports whether name is a recognized stdlib function.
func IsStdlibName(name string) bool {
	_, ok := StdlibFunctions[name]
	return ok
}
