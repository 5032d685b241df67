package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = old })
}

func tempDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "users.db")
}

func run(t *testing.T, dsn string, out io.Writer, args ...string) error {
	t.Helper()
	full := append([]string{"-d", dsn, "-i", "500"}, args...)
	return Run(context.Background(), full, out)
}

func TestRun_AddUserPromptsForUsernameWhenOmitted(t *testing.T) {
	stubStdin(t, "alice\n")
	stubPasswords(t, "pw123", "pw123")
	out := &bytes.Buffer{}

	require.NoError(t, run(t, tempDSN(t), out, "adduser"))

	assert.Contains(t, out.String(), "Username")
	assert.Contains(t, out.String(), "created user alice")
}

func TestRun_AddUserWithExplicitUsername(t *testing.T) {
	stubPasswords(t, "pw123", "pw123")
	out := &bytes.Buffer{}
	dsn := tempDSN(t)

	require.NoError(t, run(t, dsn, out, "adduser", "bob", "admin"))
	assert.Contains(t, out.String(), "created user bob")

	out.Reset()
	require.NoError(t, run(t, dsn, out, "list"))
	assert.Contains(t, out.String(), "bob")
	assert.Contains(t, out.String(), "admin")
}

func TestRun_AddUserEmptyPromptedUsername(t *testing.T) {
	stubStdin(t, "\n")
	out := &bytes.Buffer{}

	err := run(t, tempDSN(t), out, "adduser")
	assert.ErrorContains(t, err, "username required")
}

func TestRun_UnknownCommand(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(t, tempDSN(t), out, "frobnicate")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Usage:")
}
