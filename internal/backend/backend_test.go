package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// passthroughStub stands in for sudo and env: it drops leading VAR=value
// assignments and executes the rest, so privileged commands run the stubbed
// tools on PATH whether or not the test itself runs as root.
const passthroughStub = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    *=*) shift ;;
    *) break ;;
  esac
done
exec "$@"
`

func writeStub(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755))
}

func stubPrivilege(t *testing.T, dir string) {
	t.Helper()
	writeStub(t, dir, "sudo", passthroughStub)
	writeStub(t, dir, "env", passthroughStub)
}

// recordingStub appends the invocation to $KITOUT_TEST_CMDLOG and succeeds.
func recordingStub(name string) string {
	return fmt.Sprintf("#!/bin/sh\necho \"%s $*\" >> \"$KITOUT_TEST_CMDLOG\"\n", name)
}

func newCommandLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commands.log")
	t.Setenv("KITOUT_TEST_CMDLOG", path)
	return path
}

func readCommandLog(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func prependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func newTestBackend(t *testing.T, opts Options) *Backend {
	t.Helper()
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return New(opts)
}
