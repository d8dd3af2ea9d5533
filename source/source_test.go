package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ---------------------------------------------------------------------------
// Synthetic
// ---------------------------------------------------------------------------

func TestSynthetic_IsDeterministic(t *testing.T) {
	a := Synthetic(50, 7)
	b := Synthetic(50, 7)
	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("want 50 entries, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID() != b[i].ID() || a[i].FilterValue() != b[i].FilterValue() {
			t.Fatalf("entry %d differs between runs with the same seed", i)
		}
	}
}

func TestSynthetic_MixesSizingStrategies(t *testing.T) {
	var rows, cards, notes, docs int
	for _, e := range Synthetic(100, 1) {
		switch e.(type) {
		case Row:
			rows++
		case Card:
			cards++
		case Note:
			notes++
		case Doc:
			docs++
		}
	}
	if rows != 60 || cards != 20 || notes != 10 || docs != 10 {
		t.Errorf("want 60/20/10/10 rows/cards/notes/docs, got %d/%d/%d/%d", rows, cards, notes, docs)
	}
}

func TestSynthetic_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Synthetic(200, 3) {
		if seen[e.ID()] {
			t.Fatalf("duplicate id %q", e.ID())
		}
		seen[e.ID()] = true
	}
}

func TestCard_HeightIsUniform(t *testing.T) {
	short := Card{Index: 1, Title: "A", Subtitle: "b"}
	long := Card{Index: 2, Title: strings.Repeat("title ", 30), Subtitle: strings.Repeat("sub ", 40)}
	for _, w := range []int{20, 60, 120} {
		hs := strings.Count(short.Render(w), "\n")
		hl := strings.Count(long.Render(w), "\n")
		if hs != hl {
			t.Errorf("width %d: card heights differ (%d vs %d lines)", w, hs+1, hl+1)
		}
	}
}

func TestRow_IsOneLine(t *testing.T) {
	r := Row{Index: 3, Text: "hello there"}
	if strings.Contains(r.Render(8), "\n") {
		t.Error("a row must render to a single line")
	}
	if r.Size(80) != 1 {
		t.Errorf("want size 1, got %d", r.Size(80))
	}
}

func TestNote_ToggleBumpsVersion(t *testing.T) {
	n := Note{Index: 8, Text: strings.Repeat("word ", 40), version: 1}
	collapsed := n.Render(30)
	open := n.Toggle()
	if open.ContentVersion() == n.ContentVersion() {
		t.Error("toggling must change the content version")
	}
	if strings.Count(open.Render(30), "\n") <= strings.Count(collapsed, "\n") {
		t.Error("an expanded note should be taller than its summary")
	}
	if cmd := open.HandleClick(0, 0); cmd == nil {
		t.Error("clicking a note should produce a toggle command")
	}
}

// ---------------------------------------------------------------------------
// Git
// ---------------------------------------------------------------------------

func commitFile(t *testing.T, repo *git.Repository, dir, name, message string, when time.Time) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(message), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	sig := &object.Signature{Name: "Ada", Email: "ada@example.com", When: when}
	if _, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatal(err)
	}
}

func TestGitLog_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "a.txt", "first", base)
	commitFile(t, repo, dir, "b.txt", "second\n\nwith a body", base.Add(time.Hour))

	commits, err := GitLog(context.Background(), dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 2 {
		t.Fatalf("want 2 commits, got %d", len(commits))
	}
	if commits[0].Subject != "second" || commits[0].Body != "with a body" {
		t.Errorf("want newest commit first with its body split, got %+v", commits[0])
	}
	if commits[1].Size(80) != 1 {
		t.Error("a subject-only commit should have a known size of 1")
	}
	if commits[0].Size(80) != 0 {
		t.Error("a commit with a body should be measured")
	}
}

func TestGitLog_RespectsLimit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		commitFile(t, repo, dir, name, "change "+name, base.Add(time.Duration(i)*time.Minute))
	}
	commits, err := GitLog(context.Background(), dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 2 {
		t.Errorf("want 2 commits, got %d", len(commits))
	}
}

func TestGitLog_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	commits, err := GitLog(context.Background(), dir, 10)
	if err != nil {
		t.Fatalf("want no error for an empty repository, got %v", err)
	}
	if len(commits) != 0 {
		t.Errorf("want no commits, got %d", len(commits))
	}
}

func TestGitLog_NotARepository(t *testing.T) {
	if _, err := GitLog(context.Background(), t.TempDir(), 10); err == nil {
		t.Error("want an error outside a repository")
	}
}
