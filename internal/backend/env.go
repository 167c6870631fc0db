package backend

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

const osReleasePath = "/etc/os-release"

// networkProbes are tried in order until one answers; reaching any of them
// proves the connectivity the install methods need.
var networkProbes = []string{
	"https://deb.debian.org",
	"https://github.com",
	"https://raw.githubusercontent.com",
}

// OSRelease carries the /etc/os-release fields the platform gate cares about.
type OSRelease struct {
	ID       string
	IDLike   string
	Codename string
}

// ParseOSRelease reads an os-release file. Values may be quoted.
func ParseOSRelease(path string) (OSRelease, error) {
	f, err := os.Open(path)
	if err != nil {
		return OSRelease{}, err
	}
	defer f.Close()

	var rel OSRelease
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			rel.ID = value
		case "ID_LIKE":
			rel.IDLike = value
		case "VERSION_CODENAME":
			rel.Codename = value
		}
	}
	return rel, scanner.Err()
}

// DebianFamily reports whether the release belongs to the Debian family,
// which is what the apt-based install methods assume.
func (r OSRelease) DebianFamily() bool {
	if r.ID == "debian" || r.ID == "ubuntu" {
		return true
	}
	for _, like := range strings.Fields(r.IDLike) {
		if like == "debian" || like == "ubuntu" {
			return true
		}
	}
	return false
}

// CheckPlatform verifies the host is an apt-capable Debian-family system.
// Anything else is a fatal environment error: nothing would install.
func (b *Backend) CheckPlatform() error {
	rel, err := ParseOSRelease(b.osRelease)
	if err != nil {
		return kitouterrors.NewEnvError("cannot identify the operating system", err)
	}
	if !rel.DebianFamily() {
		return kitouterrors.NewEnvError(
			fmt.Sprintf("unsupported platform %q: a Debian-family system with apt is required", rel.ID), nil)
	}
	return nil
}

// CheckNetwork verifies at least one content source is reachable. Every
// install method needs the network, so an offline host fails the whole run
// up front rather than component by component.
func (b *Backend) CheckNetwork(ctx context.Context) error {
	var lastErr error
	for _, probe := range b.probes {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, probe, nil)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := b.fetcher.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
		b.log.WithFields(map[string]any{"probe": probe}).Debug("Network reachable")
		return nil
	}
	return kitouterrors.NewEnvError("no network reachability", lastErr)
}
