package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `package shop

//mapbuilder:record
type Customer struct {
	ID       int64
	FullName string
	Email    *string
}

//mapbuilder:record
type Status string
`

// chdirModule changes into a fresh module holding source.
func chdirModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/shop\n\ngo 1.24\n"
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGenerateCommand(t *testing.T) {
	t.Run("writes builders and fails on skipped records", func(t *testing.T) {
		dir := chdirModule(t, map[string]string{"shop.go": source})

		_, stderr, err := execute(t, "generate", "./...")
		require.Error(t, err)
		assert.Equal(t, "1 of 2 records failed", err.Error())
		assert.Contains(t, stderr, "not a record type")
		assert.FileExists(t, filepath.Join(dir, "customer_builder.go"))
	})

	t.Run("succeeds with selected types", func(t *testing.T) {
		dir := chdirModule(t, map[string]string{"shop.go": source})

		_, _, err := execute(t, "generate", "--type", "Customer", "--suffix", "Draft")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "customer_builder.go"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "type CustomerDraft struct")
	})

	t.Run("dry run prints instead of writing", func(t *testing.T) {
		dir := chdirModule(t, map[string]string{"shop.go": source})

		stdout, _, err := execute(t, "generate", "--dry-run", "--type", "Customer", "--key-style", "camel")
		require.NoError(t, err)
		assert.Contains(t, stdout, filepath.Join(dir, "customer_builder.go"))
		assert.Contains(t, stdout, `"fullName"`)
		assert.NoFileExists(t, filepath.Join(dir, "customer_builder.go"))
	})

	t.Run("configuration file", func(t *testing.T) {
		dir := chdirModule(t, map[string]string{
			"shop.go":         source,
			"mapbuilder.yaml": "types: Customer\nfile_suffix: _mb.go\n",
		})

		_, _, err := execute(t, "generate")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "customer_mb.go"))
	})

	t.Run("json log", func(t *testing.T) {
		chdirModule(t, map[string]string{"shop.go": source})

		_, stderr, err := execute(t, "generate", "--json-log", "--verbose", "--type", "Customer")
		require.NoError(t, err)
		assert.Contains(t, stderr, `"msg":"generated builder"`)
	})

	t.Run("invalid flags", func(t *testing.T) {
		chdirModule(t, map[string]string{"shop.go": source})

		_, _, err := execute(t, "generate", "--workers", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--workers must be positive")

		_, _, err = execute(t, "generate", "--key-style", "kebab")
		require.Error(t, err)
	})
}
