// Package cache provides an optional file-based cache for generated commit
// messages.
//
// Entries are keyed by a SHA-256 digest of the endpoint, model and both
// prompts, so an identical staged diff re-uses the earlier suggestion
// without another API call. Each entry records its creation time; entries
// older than the TTL are treated as misses and removed.
//
// The default directory is $XDG_CACHE_HOME/quill (or the OS equivalent).
// Prompts are hashed, never stored, and the diff they embed has already been
// through secret redaction.
package cache
