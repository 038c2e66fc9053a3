package options

import (
	"fmt"
	"net"

	"github.com/spf13/pflag"
)

// InsecureServingOptions carries the HTTP bind address/port, bound from the
// config file's [http] section (spec.md §6; renamed from the Python
// prototype's [uvicorn] section since the front-end is no longer ASGI-hosted).
type InsecureServingOptions struct {
	BindAddress net.IP `json:"host" mapstructure:"host"`
	BindPort    int    `json:"port" mapstructure:"port"`
}

func NewInsecureServingOptions() *InsecureServingOptions {
	return &InsecureServingOptions{
		BindAddress: net.ParseIP("127.0.0.1"),
		BindPort:    8001,
	}
}

func (i *InsecureServingOptions) Validate() []error {
	var errs []error
	if i.BindAddress == nil {
		errs = append(errs, fmt.Errorf("http.host is required"))
	}
	if i.BindPort <= 0 || i.BindPort > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be in [1, 65535]"))
	}
	return errs
}

func (i *InsecureServingOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IPVarP(&i.BindAddress, "http.host", "b", net.ParseIP("127.0.0.1"), "IP address on which to serve HTTP, set to 0.0.0.0 for all interfaces")
	fs.IntVarP(&i.BindPort, "http.port", "p", 8001, "port to listen on for incoming HTTP requests")
}
