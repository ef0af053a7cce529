package gitctx

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// GitDir returns the git directory of the repository containing start,
// searching parent directories. For linked worktrees it returns the
// worktree's own git directory, where hooks are looked up.
func GitDir(start string) (string, error) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository at %s has no on-disk git directory", start)
	}
	return storage.Filesystem().Root(), nil
}
