package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/quill/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_TextNoChanges(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, suggest.Result{NoChanges: true}, "text"))
	assert.Equal(t, "No changes to commit.\n", buf.String())
}

func TestWrite_TextMessageIsPlainOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	msg := "[Fix] handle nil\n\nDescription:\n- guard"
	require.NoError(t, Write(&buf, suggest.Result{Message: msg}, ""))
	assert.Equal(t, msg+"\n", buf.String(), "no escape codes when not writing to a terminal")
}

func TestWrite_TextSingleLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, suggest.Result{Message: "Refactor code.", Fallback: true}, "text"))
	assert.Equal(t, "Refactor code.\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	res := suggest.Result{Message: "[New] add x", Files: []string{"x.go"}, Cached: true}
	require.NoError(t, Write(&buf, res, "json"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "[New] add x", got["message"])
	assert.Equal(t, []any{"x.go"}, got["files"])
	assert.Equal(t, true, got["cached"])
	assert.Equal(t, false, got["fallback"])
}

func TestWrite_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, suggest.Result{Message: "[Fix] x", Truncated: true}, "json"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"files", "message", "noChanges", "fallback", "cached", "truncated"}, keys)
	assert.Equal(t, true, got["truncated"])
	assert.Equal(t, false, got["noChanges"])
}

func TestWrite_JSONEmptyFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, suggest.Result{NoChanges: true}, "json"))
	assert.Contains(t, buf.String(), `"files": []`)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, suggest.Result{}, "sarif")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestCopy(t *testing.T) {
	orig := copyToClipboard
	defer func() { copyToClipboard = orig }()

	var copied string
	copyToClipboard = func(s string) error { copied = s; return nil }
	if err := Copy("[Fix] x"); err != nil {
		t.Skipf("clipboard unsupported here: %v", err)
	}
	assert.Equal(t, "[Fix] x", copied)

	copyToClipboard = func(string) error { return errors.New("no display") }
	assert.ErrorContains(t, Copy("x"), "no display")
}

func TestPrependToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte("# Please enter the commit message\n"), 0o644))

	require.NoError(t, PrependToFile(path, "[Fix] x\n\n- y\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[Fix] x\n\n- y\n\n# Please enter the commit message\n", string(data))
}

func TestPrependToFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MSG")
	require.NoError(t, PrependToFile(path, "[New] y"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[New] y\n", string(data))
}
