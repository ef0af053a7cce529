// Package gitctx collects the staged diff of a git repository.
//
// Git is driven through the [Runner] interface: [ExecRunner] shells out to
// the git binary, tests substitute a fake. [Collector.Collect] lists the
// staged files (`git diff --cached --name-only`), drops minified files and
// those outside the include/exclude globs, fetches each remaining file's
// diff and truncates the joined text to a character budget.
//
// [GitDir] locates the repository's git directory for hook management.
package gitctx
