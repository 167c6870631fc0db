package privilege

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

func writeStub(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755))
}

func stubSudo(t *testing.T, body string) {
	t.Helper()
	binDir := t.TempDir()
	writeStub(t, binDir, "sudo", body)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestEnsureSucceeds(t *testing.T) {
	if IsRoot() {
		t.Skip("requires a non-root test environment")
	}

	stubSudo(t, "#!/bin/sh\nexit 0\n")
	require.NoError(t, Ensure(context.Background(), nil))
}

func TestEnsureFailureIsEnvError(t *testing.T) {
	if IsRoot() {
		t.Skip("requires a non-root test environment")
	}

	stubSudo(t, "#!/bin/sh\necho 'sudo: a password is required' >&2\nexit 1\n")

	err := Ensure(context.Background(), nil)
	require.Error(t, err)

	var envErr *kitouterrors.EnvError
	require.ErrorAs(t, err, &envErr)
	assert.Contains(t, err.Error(), "elevated privileges")
}

func TestKeepAliveRefreshesOnInterval(t *testing.T) {
	if IsRoot() {
		t.Skip("requires a non-root test environment")
	}

	marker := filepath.Join(t.TempDir(), "refreshes")
	stubSudo(t, fmt.Sprintf("#!/bin/sh\necho refreshed >> %q\n", marker))

	KeepAlive(10*time.Millisecond, nil)

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(marker)
		return err == nil && len(data) > 0
	}, 2*time.Second, 10*time.Millisecond, "expected at least one sudo refresh")
}
