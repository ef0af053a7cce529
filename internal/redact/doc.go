// Package redact removes secrets from staged diffs before they are sent to
// the completion API.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private key headers, AWS keys, bearer tokens, credentials inside
// database URLs, and provider tokens (OpenAI, Anthropic, GitHub, Slack).
//
// Files whose paths match the configured globs (".env", "*secrets*") are
// replaced wholesale by a one-line placeholder that still names the file.
package redact
