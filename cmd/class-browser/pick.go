package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/koki-develop/go-fzf"

	"class-browser/internal/config"
	"class-browser/internal/session"
	"class-browser/internal/tree"
)

func cmdPick(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: pick takes exactly one archive", errUsage)
	}
	s, err := openSession(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	entry, err := selectEntry(s)
	if err != nil || entry == "" {
		return err
	}
	c, err := resolveEntry(ctx, s, entry)
	if err != nil {
		return err
	}
	return writeContent(stdout, c, false)
}

// selectEntry presents an interactive fuzzy finder over the tree's leaves.
// It returns "" when the user cancels.
func selectEntry(s *session.Session) (string, error) {
	root := s.Tree()
	leaves := tree.LeafPaths(root)
	if len(leaves) == 0 {
		return "", errors.New("archive has no entries to pick")
	}

	f, err := fzf.New(
		fzf.WithPrompt(root.Name+" > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return "", err
	}

	idxs, err := f.Find(
		leaves,
		func(i int) string { return leaves[i] },
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(leaves) {
				return ""
			}
			c, err := s.Resolve(tree.Selection(root, leaves[i]))
			return preview(c, err, h)
		}),
	)
	if err != nil {
		return "", err
	}
	if len(idxs) == 0 {
		return "", nil // User cancelled
	}
	return leaves[idxs[0]], nil
}
