// Quill suggests a commit message for the currently staged changes.
//
// It collects the staged diff, sends it to an OpenAI-compatible chat
// completion endpoint and prints the suggestion. When no message can be
// generated it prints "Refactor code." and still exits 0, so it is safe to
// run from a prepare-commit-msg hook.
//
// Usage:
//
//	quill                        # suggest a message for staged changes
//	quill --copy                 # also copy it to the clipboard
//	quill --format json          # machine-readable output
//	quill hook install           # fill commit messages automatically
//	quill config set model gpt-4o
package main
