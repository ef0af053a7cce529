package gitctx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers git invocations from a map keyed by the joined args.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Git(_ context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func TestStagedFiles_SkipsMinifiedAndBlank(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"diff --cached --name-only": "main.go\n\napp.min.js\n  util.go  \nstyle.min.css\n",
	}}
	files, err := NewCollector(r).StagedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "util.go"}, files)
}

func TestStagedFiles_Error(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{
		"diff --cached --name-only": errors.New("fatal: not a git repository"),
	}}
	_, err := NewCollector(r).StagedFiles(context.Background())
	assert.ErrorContains(t, err, "not a git repository")
}

func TestFileDiff_ContextLines(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{}}
	c := NewCollector(r)

	_, err := c.FileDiff(context.Background(), "a.go", 0)
	require.NoError(t, err)
	_, err = c.FileDiff(context.Background(), "a.go", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"diff --cached -- a.go", "diff --cached -U5 -- a.go"}, r.calls)
}

func TestCollect_JoinsFiltersAndRedacts(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{
			"diff --cached --name-only":        "a.go\nvendor/x/lib.go\nb.go\nc.go\n",
			"diff --cached -- a.go":            "diff-a",
			"diff --cached -- b.go":            "diff-b",
			"diff --cached -- vendor/x/lib.go": "diff-vendor",
		},
		errs: map[string]error{
			"diff --cached -- c.go": errors.New("boom"),
		},
	}

	var failed []string
	got, err := NewCollector(r).Collect(context.Background(), DiffOptions{
		Include: []string{"**/*"},
		Exclude: []string{"vendor/**"},
		Redact: func(path, diff string) string {
			return strings.ToUpper(diff)
		},
		OnFileError: func(path string, err error) {
			failed = append(failed, path)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, got.Files)
	assert.Equal(t, "DIFF-A\nDIFF-B", got.Diff)
	assert.False(t, got.Truncated)
	assert.Equal(t, []string{"c.go"}, failed)
	assert.NotContains(t, r.calls, "diff --cached -- vendor/x/lib.go")
}

func TestCollect_TruncatesToBudget(t *testing.T) {
	big := strings.Repeat("x", 3000)
	r := &fakeRunner{outputs: map[string]string{
		"diff --cached --name-only": "a.go\nb.go\n",
		"diff --cached -- a.go":     big,
		"diff --cached -- b.go":     big,
	}}
	got, err := NewCollector(r).Collect(context.Background(), DiffOptions{MaxChars: 4000})
	require.NoError(t, err)
	assert.Len(t, got.Diff, 4000)
	assert.True(t, got.Truncated)
}

func TestCollect_ListingError(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{
		"diff --cached --name-only": errors.New("exit status 128"),
	}}
	_, err := NewCollector(r).Collect(context.Background(), DiffOptions{})
	assert.Error(t, err)
}

func TestCollect_NothingStaged(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"diff --cached --name-only": ""}}
	got, err := NewCollector(r).Collect(context.Background(), DiffOptions{MaxChars: 4000})
	require.NoError(t, err)
	assert.Empty(t, got.Files)
	assert.Empty(t, got.Diff)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdef", 5, "abcde"},
		{"disabled", "abcdef", 0, "abcdef"},
		{"runes", "判斷檔案變更", 4, "判斷檔案"},
		{"rune count equals budget", "判斷", 2, "判斷"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"vendor/lib.go", []string{"vendor/**"}, true},
		{"vendor/a/b/lib.go", []string{"vendor/**"}, true},
		{"main.go", []string{"vendor/**"}, false},
		{"foo.gen.go", []string{"**/*.gen.go"}, true},
		{"pkg/foo.gen.go", []string{"**/*.gen.go"}, true},
		{"web/app.min.js", []string{"**/*.min.*"}, true},
		{"main.go", []string{"*.go"}, true},
		{"anything/at/all", []string{"**/*"}, true},
	}
	for _, tt := range tests {
		got := MatchesAny(tt.path, tt.patterns)
		assert.Equal(t, tt.want, got, "MatchesAny(%q, %v)", tt.path, tt.patterns)
	}
}

func TestExecRunner_Integration(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.min.js"), []byte("x\n"), 0o644))
	run("add", "hello.txt", "lib.min.js")

	got, err := NewCollector(ExecRunner{Dir: dir}).Collect(context.Background(), DiffOptions{MaxChars: 4000})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello.txt"}, got.Files)
	assert.Contains(t, got.Diff, "+hello")

	gitDir, err := GitDir(filepath.Join(dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git"), gitDir)
}

func TestGitDir_NotARepo(t *testing.T) {
	_, err := GitDir(t.TempDir())
	assert.Error(t, err)
}
