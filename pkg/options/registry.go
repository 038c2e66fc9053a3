package options

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// RegistryOptions binds the [autopeer] section's registry and persistence
// keys: where the read-only DN42 registry tree lives, and where the
// privileged worker keeps its PeerInfo SQLite database (spec.md §6).
type RegistryOptions struct {
	// Registry is the root of the DN42-style registry tree
	// (<root>/data/aut-num, <root>/data/person, <root>/data/mntner).
	Registry string `json:"registry" mapstructure:"registry"`

	// DbDir is the directory the worker stores its peer database under.
	DbDir string `json:"db_dir" mapstructure:"db_dir"`
}

func NewRegistryOptions() *RegistryOptions {
	return &RegistryOptions{
		Registry: "/var/db/dn42-registry",
		DbDir:    "/var/db/autopeerd",
	}
}

func (o *RegistryOptions) Validate() []error {
	var errs []error
	if strings.TrimSpace(o.Registry) == "" {
		errs = append(errs, fmt.Errorf("autopeer.registry is required"))
	}
	if strings.TrimSpace(o.DbDir) == "" {
		errs = append(errs, fmt.Errorf("autopeer.db_dir is required"))
	}
	return errs
}

func (o *RegistryOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Registry, "autopeer.registry", o.Registry, "root of the DN42-style registry tree")
	fs.StringVar(&o.DbDir, "autopeer.db_dir", o.DbDir, "directory for the worker's PeerInfo database and generated secrets")
}

// DataSourceName returns the glebarez/sqlite DSN for the PeerInfo database
// under DbDir.
func (o *RegistryOptions) DataSourceName() string {
	return filepath.Join(o.DbDir, "peers.db")
}
