// Package output renders a suggestion for humans or machines.
//
// Two formats are supported:
//   - text: the message alone, title highlighted on a terminal (default)
//   - json: the full [suggest.Result]
//
// [Copy] puts the message on the clipboard and [PrependToFile] fills a git
// commit message file for the prepare-commit-msg hook.
package output
