package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the full set of provisionable components, in priority order.
// It is parsed and validated once at startup and read-only afterwards.
type Catalog struct {
	Version    string      `yaml:"version" validate:"required"`
	Name       string      `yaml:"name" validate:"required,min=1,max=100"`
	Components []Component `yaml:"components" validate:"required,min=1,dive"`
}

// Category separates components installed by default from opt-in extras.
type Category string

const (
	// CategoryCore components default their install prompt to yes.
	CategoryCore Category = "core"
	// CategoryOptional components default their install prompt to no.
	CategoryOptional Category = "optional"
)

// Component describes one provisionable tool: how to detect it, how to
// install it (with an optional fallback method), and how its prompts default.
type Component struct {
	ID       string   `yaml:"id" validate:"required,component_id"`
	Label    string   `yaml:"label" validate:"required,min=1"`
	Category Category `yaml:"category,omitempty" validate:"omitempty,oneof=core optional"`

	Detect   DetectSpec     `yaml:"detect"`
	Install  InstallMethod  `yaml:"install"`
	Fallback *InstallMethod `yaml:"fallback,omitempty"`

	// DefaultYes overrides the category-derived default answer for the
	// primary install prompt.
	DefaultYes *bool `yaml:"default_yes,omitempty"`

	// ConfirmReinstall gates already-present components behind an explicit
	// reinstall prompt that defaults to no.
	ConfirmReinstall bool `yaml:"confirm_reinstall,omitempty"`

	// BackupPaths are overwritten by this component's install and get copied
	// into the run's backup tree first. Supports a leading ~.
	BackupPaths []string `yaml:"backup_paths,omitempty"`

	// Groups the invoking user is added to after a successful install.
	Groups []string `yaml:"groups,omitempty"`

	// LoginShell, when set, becomes the user's default shell after a
	// successful install.
	LoginShell string `yaml:"login_shell,omitempty"`
}

// DefaultAnswer resolves the primary prompt's default: an explicit
// DefaultYes wins, otherwise core components default to yes.
func (c Component) DefaultAnswer() bool {
	if c.DefaultYes != nil {
		return *c.DefaultYes
	}
	return c.Category != CategoryOptional
}

// DetectSpec tells the detector how to probe for a component. At least one
// of Command and Marker must be set: Command is an executable looked up on
// PATH (with optional version arguments), Marker is a file or directory whose
// presence means installed.
type DetectSpec struct {
	Command     string   `yaml:"command,omitempty"`
	VersionArgs []string `yaml:"version_args,omitempty"`
	Marker      string   `yaml:"marker,omitempty"`
}

// Install method kinds.
const (
	KindApt     = "apt"
	KindAptRepo = "apt-repo"
	KindScript  = "script"
	KindRelease = "release"
	KindClone   = "clone"
)

// InstallMethod is a tagged union over the supported install strategies.
// Exactly one of the typed configurations is populated, matching Kind.
type InstallMethod struct {
	Kind string `yaml:"kind" validate:"required,oneof=apt apt-repo script release clone"`

	Apt     *AptMethod     `yaml:"-"`
	AptRepo *AptRepoMethod `yaml:"-"`
	Script  *ScriptMethod  `yaml:"-"`
	Release *ReleaseMethod `yaml:"-"`
	Clone   *CloneMethod   `yaml:"-"`
}

// UnmarshalYAML decodes the method into the kind-specific structure.
func (m *InstallMethod) UnmarshalYAML(value *yaml.Node) error {
	type baseMethod struct {
		Kind string `yaml:"kind"`
	}

	var base baseMethod
	if err := value.Decode(&base); err != nil {
		return err
	}
	m.Kind = base.Kind

	m.Apt = nil
	m.AptRepo = nil
	m.Script = nil
	m.Release = nil
	m.Clone = nil

	switch base.Kind {
	case KindApt:
		var apt AptMethod
		if err := value.Decode(&apt); err != nil {
			return err
		}
		m.Apt = &apt
	case KindAptRepo:
		var repo AptRepoMethod
		if err := value.Decode(&repo); err != nil {
			return err
		}
		m.AptRepo = &repo
	case KindScript:
		var script ScriptMethod
		if err := value.Decode(&script); err != nil {
			return err
		}
		m.Script = &script
	case KindRelease:
		var release ReleaseMethod
		if err := value.Decode(&release); err != nil {
			return err
		}
		m.Release = &release
	case KindClone:
		var clone CloneMethod
		if err := value.Decode(&clone); err != nil {
			return err
		}
		m.Clone = &clone
	}

	return nil
}

// Describe summarises the method for plans and prompts.
func (m InstallMethod) Describe() string {
	switch m.Kind {
	case KindApt:
		if m.Apt != nil {
			return fmt.Sprintf("apt install %s", strings.Join(m.Apt.Packages, " "))
		}
	case KindAptRepo:
		if m.AptRepo != nil {
			return fmt.Sprintf("apt repository + install %s", strings.Join(m.AptRepo.Packages, " "))
		}
	case KindScript:
		if m.Script != nil {
			return fmt.Sprintf("install script %s", m.Script.URL)
		}
	case KindRelease:
		if m.Release != nil {
			return fmt.Sprintf("release archive %s", m.Release.URL)
		}
	case KindClone:
		if m.Clone != nil {
			return fmt.Sprintf("git clone %s", m.Clone.URL)
		}
	}
	return m.Kind
}

// AptMethod installs distribution packages.
type AptMethod struct {
	Packages []string `yaml:"packages" validate:"required,min=1,dive,min=1,max=100"`
	Update   bool     `yaml:"update,omitempty"`
}

// AptRepoMethod registers an external apt repository (signing key plus
// sources entry) and installs packages from it.
type AptRepoMethod struct {
	KeyURL   string   `yaml:"key_url" validate:"required,url"`
	Repo     string   `yaml:"repo" validate:"required"`
	ListName string   `yaml:"list_name" validate:"required"`
	Packages []string `yaml:"packages" validate:"required,min=1"`
}

// ScriptMethod downloads an installer script, verifies it, and runs it.
// Verification always rejects empty or non-script payloads; when SHA256 is
// pinned the digest must match exactly.
type ScriptMethod struct {
	URL    string   `yaml:"url" validate:"required,url"`
	SHA256 string   `yaml:"sha256,omitempty" validate:"omitempty,len=64,hexadecimal"`
	Args   []string `yaml:"args,omitempty"`
	Sudo   bool     `yaml:"sudo,omitempty"`
}

// ReleaseMethod downloads a self-contained release archive, unpacks it under
// Dest, and links Bin (a path relative to the unpacked tree) to Link.
type ReleaseMethod struct {
	URL  string `yaml:"url" validate:"required,url"`
	Dest string `yaml:"dest" validate:"required"`
	Bin  string `yaml:"bin,omitempty"`
	Link string `yaml:"link,omitempty"`
}

// CloneMethod clones a git repository. A fallback InstallMethod may carry a
// second CloneMethod pointing at a mirror.
type CloneMethod struct {
	URL   string `yaml:"url" validate:"required"`
	Dest  string `yaml:"dest" validate:"required"`
	Depth int    `yaml:"depth,omitempty" validate:"omitempty,min=0"`
}

// Component returns the component with the given identifier.
func (c *Catalog) Component(id string) (Component, bool) {
	for _, comp := range c.Components {
		if comp.ID == id {
			return comp, true
		}
	}
	return Component{}, false
}

// IDs lists component identifiers in catalog priority order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Components))
	for _, comp := range c.Components {
		ids = append(ids, comp.ID)
	}
	return ids
}
