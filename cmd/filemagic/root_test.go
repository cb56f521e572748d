package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_BuiltInDatabase(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.5\n..."), 0o644))
	txt := filepath.Join(dir, "notes")
	require.NoError(t, os.WriteFile(txt, []byte("plain words"), 0o644))

	out, err := execute(t, pdf, txt)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, pdf+": PDF document, version 1.5", lines[0])
	assert.Equal(t, txt+": data", lines[1])
}

func TestRoot_MimeAndBrief(t *testing.T) {
	p := filepath.Join(t.TempDir(), "archive")
	require.NoError(t, os.WriteFile(p, []byte("PK\x03\x04\x14\x00"), 0o644))

	out, err := execute(t, "--mime", "--brief", p)
	require.NoError(t, err)
	assert.Equal(t, "application/zip\n", out)
}

func TestRoot_CustomMagic(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules")
	require.NoError(t, os.WriteFile(rules, []byte("0\tstring\tHELLO\tgreeting text\n"), 0o644))
	p := filepath.Join(dir, "hello")
	require.NoError(t, os.WriteFile(p, []byte("HELLO there"), 0o644))

	out, err := execute(t, "-m", rules, "-b", p)
	require.NoError(t, err)
	assert.Equal(t, "greeting text\n", out)
}

func TestRoot_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	out, err := execute(t, missing)
	require.Error(t, err)
	assert.Contains(t, out, missing+": cannot open")
}

func TestRoot_BadMagicPath(t *testing.T) {
	_, err := execute(t, "-m", filepath.Join(t.TempDir(), "nope"), "whatever")
	require.Error(t, err)
}

func TestRoot_RequiresArgs(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}
