package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/miosa/osa-vlist/style"
)

// Commit is one entry of a repository's history. Commits without a body are
// one line; the rest wrap their body and are measured.
type Commit struct {
	Hash    string
	Author  string
	When    time.Time
	Subject string
	Body    string
}

func (c Commit) ID() string          { return "commit-" + c.Hash }
func (c Commit) ContentVersion() int { return 1 }
func (c Commit) FilterValue() string { return c.Subject + " " + c.Author }

// Size is 1 for subject-only commits and unknown otherwise.
func (c Commit) Size(int) int {
	if c.Body == "" {
		return 1
	}
	return 0
}

func (c Commit) Render(width int) string {
	short := c.Hash
	if len(short) > 8 {
		short = short[:8]
	}
	head := style.CommitHash.Render(short) + " " +
		style.CommitWhen.Render(c.When.Format("2006-01-02")) + " " +
		style.CommitAuthor.Render(c.Author) + " " +
		style.CommitSubject.Render(c.Subject)
	head = clip(head, width)
	if c.Body == "" {
		return head
	}
	body := lipgloss.NewStyle().
		Width(max(1, width)).
		PaddingLeft(9).
		Foreground(style.Muted).
		Render(c.Body)
	return head + "\n" + body
}

// openRepo opens the repository containing path.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		path = "."
	}
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// GitLog returns up to limit commits reachable from HEAD, newest first. A
// repository without commits yields an empty slice.
func GitLog(ctx context.Context, path string, limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = 1000
	}
	repo, err := openRepo(path)
	if err != nil {
		return nil, fmt.Errorf("git log: open %q: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []Commit{}, nil
		}
		return nil, fmt.Errorf("git log: head: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0, min(limit, 256))
	err = iter.ForEach(func(c *object.Commit) error {
		if len(commits) >= limit {
			return storer.ErrStop
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		subject, body := splitMessage(c.Message)
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			When:    c.Author.When,
			Subject: subject,
			Body:    body,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("git log: walk: %w", err)
	}
	return commits, nil
}

// splitMessage separates a commit message into its first line and the
// remaining body, trimmed.
func splitMessage(m string) (subject, body string) {
	m = strings.TrimSpace(m)
	subject, body, _ = strings.Cut(m, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}
