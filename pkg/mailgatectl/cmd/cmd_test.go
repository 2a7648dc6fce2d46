package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mailgatectl")
}

func TestKeyRoundTrip(t *testing.T) {
	keyring.MockInit()

	out, err := execute(t, "key", "set", "super-secret", "--platform", "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, `API key stored for "alerts"`)

	out, err = execute(t, "key", "show", "--platform", "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "super-secret")

	_, err = execute(t, "key", "delete", "--platform", "alerts")
	require.NoError(t, err)

	_, err = execute(t, "key", "show", "--platform", "alerts")
	assert.Error(t, err)
}

func TestKeySharedAccount(t *testing.T) {
	keyring.MockInit()

	out, err := execute(t, "key", "set", "shared-secret")
	require.NoError(t, err)
	assert.Contains(t, out, `API key stored for "shared"`)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigValidateOK(t *testing.T) {
	path := writeConfig(t, `
mailers:
  - name: default
    host: smtp.example.com
    port: 587
platforms:
  alerts:
    senderEmail: alerts@example.com
    senderName: Alerts
    mailer: default
`)

	out, err := execute(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "config OK")
	assert.Contains(t, out, "1 platform(s), 1 mailer binding(s)")
}

func TestConfigValidateProblems(t *testing.T) {
	path := writeConfig(t, `
mailers:
  - name: default
    host: smtp.example.com
platforms:
  alerts:
    senderEmail: not-an-address
    senderName: Alerts
    mailer: ghost
  incomplete:
    senderEmail: x@example.com
`)

	out, err := execute(t, "config", "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, `invalid sender address "not-an-address"`)
	assert.Contains(t, out, `references unknown mailer "ghost"`)
	assert.Contains(t, out, `platform "incomplete" is incomplete`)
}

func TestSendRequiresServer(t *testing.T) {
	_, err := execute(t, "send", "--to", "user@example.com", "--subject", "Hi", "--content", "Hello", "--platform", "alerts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server is required")
}
