// Package cli wires together the Cobra command tree for the quill binary.
//
// The root command (also available as `quill suggest`) reads configuration,
// runs the suggestion pipeline and prints the result. The config, cache and
// hook subcommands manage the YAML config file, the on-disk suggestion cache
// and the prepare-commit-msg hook. Suggestion failures never change the exit
// code; only usage and configuration errors exit non-zero.
package cli
