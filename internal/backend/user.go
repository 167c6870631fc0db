package backend

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/kitout-sh/kitout/internal/catalog"
)

// Adjust applies a component's post-install host adjustments: group
// memberships and the login shell. Both are irreversible in the sense that
// this tool never undoes them.
func (b *Backend) Adjust(ctx context.Context, comp catalog.Component) error {
	if len(comp.Groups) == 0 && comp.LoginShell == "" {
		return nil
	}

	username, err := invokingUser()
	if err != nil {
		return fmt.Errorf("resolve invoking user: %w", err)
	}

	for _, group := range comp.Groups {
		if err := b.addToGroup(ctx, username, group); err != nil {
			return err
		}
	}

	if comp.LoginShell != "" {
		if err := b.setLoginShell(ctx, username, comp.LoginShell); err != nil {
			return err
		}
	}

	return nil
}

func (b *Backend) addToGroup(ctx context.Context, username, group string) error {
	res, err := b.runner.Sudo(ctx, "usermod", "-aG", group, username)
	if err != nil {
		return fmt.Errorf("add %s to group %s: %s: %w", username, group, res.PrimaryOutput(), err)
	}
	b.log.WithFields(map[string]any{
		"user":  username,
		"group": group,
	}).Info("Added user to group, effective at next login")
	return nil
}

func (b *Backend) setLoginShell(ctx context.Context, username, shell string) error {
	if current := os.Getenv("SHELL"); current == shell {
		b.log.WithFields(map[string]any{"shell": shell}).Debug("Login shell already set")
		return nil
	}

	res, err := b.runner.Sudo(ctx, "chsh", "-s", shell, username)
	if err != nil {
		return fmt.Errorf("change login shell to %s: %s: %w", shell, res.PrimaryOutput(), err)
	}
	b.log.WithFields(map[string]any{
		"user":  username,
		"shell": shell,
	}).Info("Changed login shell, effective at next login")
	return nil
}

// invokingUser resolves who the run is provisioning for. Under sudo that is
// the original user, not root.
func invokingUser() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && os.Geteuid() == 0 {
		return sudoUser, nil
	}

	current, err := user.Current()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(current.Username) == "" {
		return "", fmt.Errorf("empty username for uid %d", os.Getuid())
	}
	return current.Username, nil
}
