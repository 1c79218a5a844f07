package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-structure/internal/ai"
	"github.com/thywilljoshua/pdf-structure/internal/config"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logging.SetLogger(nil) })
	var out, errOut bytes.Buffer
	cmd := rootCmd(config.Config{MaxPages: 50, Workers: 2, LogLevel: "error", GeminiModel: config.DefaultGeminiModel})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProcess_EmptyDirectory(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	stdout, err := run(t, "process", "--input", in, "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Processed 0 of 0 documents")
}

func TestProcess_FailedDocumentFailsCommand(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.pdf"), []byte("not a pdf at all"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "empty.pdf"), nil, 0o644))

	stdout, err := run(t, "process", "--input", in, "--output", out)
	assert.EqualError(t, err, "2 of 2 documents failed")
	assert.Contains(t, stdout, "failed: "+filepath.Join(in, "broken.pdf"))
	assert.Contains(t, stdout, "file is empty")
}

func TestProcess_BadFlags(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	_, err := run(t, "process", "--input", in, "--output", out, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "process", "--input", in, "--output", out, "--ai", "openai")
	assert.ErrorContains(t, err, "unknown AI provider")

	_, err = run(t, "process", "--input", in, "--output", out, "--ai", "gemini")
	assert.ErrorContains(t, err, "missing GEMINI_API_KEY")

	_, err = run(t, "process", "--input", filepath.Join(in, "nope"), "--output", out)
	assert.ErrorContains(t, err, "input directory")
}

func TestInspect_Errors(t *testing.T) {
	_, err := run(t, "inspect")
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = run(t, "inspect", empty)
	assert.ErrorContains(t, err, "file is empty")
}

func TestNewOutliner_Off(t *testing.T) {
	for _, provider := range []string{"", "off", "OFF"} {
		got, err := newOutliner(&cobra.Command{}, config.Config{}, provider, "")
		require.NoError(t, err)
		assert.Equal(t, ai.Outliner(ai.Noop{}), got, provider)
	}
}
