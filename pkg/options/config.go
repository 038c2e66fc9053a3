package options

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	basename       = "autopeerd"
	configFlagName = "config"
)

var cfgFile string

func init() {
	pflag.StringVarP(&cfgFile, "config", "f", "/etc/autopeer.conf", "Read configuration from specified `FILE`, "+
		"support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// AddConfigFlag adds the -f/--config flag to fs and wires viper's env-var
// overrides and config-file loading, mirroring the teacher's config bootstrap.
func AddConfigFlag(fs *pflag.FlagSet) {
	fs.AddFlag(pflag.Lookup(configFlagName))

	viper.AutomaticEnv()
	viper.SetEnvPrefix(strings.ToUpper(basename))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cobra.OnInitialize(func() {
		if cfgFile == "" {
			return
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			// Absent config at the default path is not fatal; flags and env
			// vars may fully describe a valid configuration.
			return
		}

		b, err := os.ReadFile(cfgFile)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: failed to read configuration file(%s): %v\n", cfgFile, err)
			os.Exit(1)
		}

		// Support ${ENV_VAR} expansion inside config files.
		expanded := os.ExpandEnv(string(b))
		ext := strings.TrimPrefix(filepath.Ext(cfgFile), ".")
		if ext == "" {
			ext = "toml"
		}
		viper.SetConfigType(ext)
		if err := viper.ReadConfig(strings.NewReader(expanded)); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: failed to read configuration file(%s): %v\n", cfgFile, err)
			os.Exit(1)
		}
	})
}
