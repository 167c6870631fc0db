package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("catalog.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "catalog.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "catalog.yaml")
}

func TestValidationErrorNamesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("components[2].detect", "command or marker required", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "components[2].detect", validationErr.Field)
	require.Contains(t, validationErr.Message, "command or marker required")
}

func TestInstallErrorIncludesMethodContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("apt-get exited 100")
	err := NewInstallError("docker", "apt-repo", underlying)

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	require.Equal(t, "docker", installErr.Component)
	require.Equal(t, "apt-repo", installErr.Method)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "apt-repo")
}

func TestVerifyErrorIsDistinctFromInstallError(t *testing.T) {
	t.Parallel()

	err := NewVerifyError("neovim")

	var verifyErr *VerifyError
	require.ErrorAs(t, err, &verifyErr)
	require.Equal(t, "neovim", verifyErr.Component)

	var installErr *InstallError
	require.False(t, stdErrors.As(err, &installErr))
	require.Contains(t, err.Error(), "post-install verification failed")
}

func TestEnvErrorCarriesReason(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("exit status 1")
	err := NewEnvError("sudo authentication failed", underlying)

	var envErr *EnvError
	require.ErrorAs(t, err, &envErr)
	require.Equal(t, "sudo authentication failed", envErr.Reason)
	require.True(t, stdErrors.Is(err, underlying))
}
