// Package config loads and merges quill configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (QUILL_MODEL, QUILL_API_URL, QUILL_MAX_DIFF_CHARS, ...),
//     including any set by a .env file in the working directory
//  3. Config file ($XDG_CONFIG_HOME/quill/config.yaml, or $QUILL_CONFIG)
//  4. Built-in defaults
//
// The API credential itself is never stored in the config file; only the
// name of the environment variable that holds it (apiKeyEnv).
//
// Use [Load] to obtain a merged [Config], [Save] to write one, and
// [SetField] to update a single key.
package config
