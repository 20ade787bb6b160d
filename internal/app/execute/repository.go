// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// LocalBranch returns the branch checked out in the git repository at path
// on fsys. HEAD is read without resolving it, so a repository with no
// commits yet still reports its branch. A detached HEAD returns "".
func LocalBranch(fsys billy.Filesystem, path string) (string, error) {
	worktree, err := fsys.Chroot(filepath.ToSlash(path))
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}
	dotGit, err := worktree.Chroot(git.GitDirName)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}

	repo, err := git.Open(filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), worktree)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("read HEAD of %s: %w", path, err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", nil
	}
	return head.Target().Short(), nil
}
