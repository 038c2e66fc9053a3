package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// PrivsepOptions names the unprivileged user/group the HTTP front-end drops
// to after privsep.Spawn forks the privileged worker (spec.md §5, §6
// [autopeer] user/group keys).
type PrivsepOptions struct {
	User  string `json:"user" mapstructure:"user"`
	Group string `json:"group" mapstructure:"group"`
}

func NewPrivsepOptions() *PrivsepOptions {
	return &PrivsepOptions{
		User:  "_autopeerd",
		Group: "_autopeerd",
	}
}

func (o *PrivsepOptions) Validate() []error {
	var errs []error
	if strings.TrimSpace(o.User) == "" {
		errs = append(errs, fmt.Errorf("autopeer.user is required"))
	}
	if strings.TrimSpace(o.Group) == "" {
		errs = append(errs, fmt.Errorf("autopeer.group is required"))
	}
	return errs
}

func (o *PrivsepOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.User, "autopeer.user", o.User, "unprivileged user the HTTP front-end drops to after fork")
	fs.StringVar(&o.Group, "autopeer.group", o.Group, "unprivileged group the HTTP front-end drops to after fork")
}
