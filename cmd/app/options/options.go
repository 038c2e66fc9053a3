package options

import (
	"encoding/json"

	"github.com/spf13/pflag"
	"k8s.io/component-base/cli/flag"
	"k8s.io/component-base/logs"

	"github.com/dn42/autopeerd/pkg/options"
)

// Options aggregates every config-file/flag-bound section autopeerd needs,
// generalized from the teacher's {InsecureServing, Log} pair to the full
// set spec.md §6's config file and CLI surface call for.
type Options struct {
	InsecureServing *options.InsecureServingOptions `json:"http" validate:"required"`
	Log             *options.LogOptions             `json:"log" validate:"required"`
	Registry        *options.RegistryOptions        `json:"autopeer" validate:"required"`
	Privsep         *options.PrivsepOptions         `json:"privsep" validate:"required"`
	Session         *options.SessionOptions         `json:"jwt" validate:"required"`
	WireGuard       *options.WireGuardOptions       `json:"wireguard" validate:"required"`
}

func NewOptions() *Options {
	return &Options{
		InsecureServing: options.NewInsecureServingOptions(),
		Log:             options.NewLogOptions(),
		Registry:        options.NewRegistryOptions(),
		Privsep:         options.NewPrivsepOptions(),
		Session:         options.NewSessionOptions(),
		WireGuard:       options.NewWireGuardOptions(),
	}
}

// AddFlags adds the flags to the specified FlagSet and returns the grouped flag sets.
func (o *Options) AddFlags(fs *pflag.FlagSet) *flag.NamedFlagSets {
	nfs := &flag.NamedFlagSets{}

	configFS := nfs.FlagSet("Config")
	options.AddConfigFlag(configFS)

	insecureServingFS := nfs.FlagSet("Insecure Serving")
	o.InsecureServing.AddFlags(insecureServingFS)

	registryFS := nfs.FlagSet("Registry")
	o.Registry.AddFlags(registryFS)

	privsepFS := nfs.FlagSet("Privsep")
	o.Privsep.AddFlags(privsepFS)

	sessionFS := nfs.FlagSet("Session")
	o.Session.AddFlags(sessionFS)

	wireguardFS := nfs.FlagSet("WireGuard")
	o.WireGuard.AddFlags(wireguardFS)

	logsFlagSet := nfs.FlagSet("Logs")
	logs.AddFlags(logsFlagSet)
	o.Log.AddFlags(logsFlagSet)

	for _, name := range nfs.Order {
		fs.AddFlagSet(nfs.FlagSets[name])
	}
	return nfs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}
