package gitremote

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/cratesup/cratesup/internal/app/resolve"
)

// Client resolves the current HEAD revision of a remote repository with an
// anonymous in-memory remote, the go-git equivalent of `git ls-remote`.
type Client struct{}

func (Client) HeadRevision(ctx context.Context, repoURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	auth, err := authForURL(repoURL)
	if err != nil {
		return "", err
	}

	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: auth})
	if err != nil {
		return "", fmt.Errorf("list remote %s: %w", repoURL, err)
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("remote %s: %w", repoURL, resolve.ErrNoRemoteHead)
	}

	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(refs))
	for _, ref := range refs {
		byName[ref.Name()] = ref
	}

	if head, ok := byName[plumbing.HEAD]; ok {
		if head.Type() == plumbing.HashReference {
			return head.Hash().String(), nil
		}
		if target, ok := byName[head.Target()]; ok {
			return target.Hash().String(), nil
		}
	}

	// No usable HEAD advertisement; fall back to the first listed ref.
	return refs[0].Hash().String(), nil
}
