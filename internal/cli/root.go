// Package cli wires the signpad commands.
package cli

import (
	"github.com/spf13/cobra"

	"SignaturePad/internal/config"
	"SignaturePad/internal/store"
)

// version is set at build time with -ldflags "-X SignaturePad/internal/cli.version=..."
var version = "dev"

// configPath is the --config flag.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "signpad",
	Short: "Capture and keep handwritten signatures",
	Long: `signpad opens a signature pad for pickups, returns and other hand-overs.
Signatures are stored locally or sent to a receiving desk on the network.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runCapture,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/signpad/config.toml)")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

func openStore(conf config.Config) (*store.Store, error) {
	return store.Open(conf.Storage.DataDir)
}
