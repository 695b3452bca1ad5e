package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/security"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAdminHash(t *testing.T) {
	out, err := runCommand(t, "admin", "hash", "correct horse")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2"), "bcrypt hash, got %q", hash)
	assert.True(t, security.VerifyPassword(hash, "correct horse"))
}

func TestAdminCheck(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	t.Setenv("AMP_ADMIN_HASH", hash)

	out, err := runCommand(t, "admin", "check", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	_, err = runCommand(t, "admin", "check", "wrong")
	require.Error(t, err)
}

func TestAdminCheck_NoHashConfigured(t *testing.T) {
	t.Setenv("AMP_ADMIN_HASH", "")
	_, err := runCommand(t, "admin", "check", "anything")
	require.Error(t, err)
}
