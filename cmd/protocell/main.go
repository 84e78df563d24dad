// Command protocell runs the artificial chemistry simulation headless, as a
// parameter sweep, behind a WebSocket stream or in a window.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"protocell/internal/logging"
	"protocell/internal/sims/protocell"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	verbose    bool
	overrides  []string

	cfg    protocell.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "protocell",
		Short: "Spatial artificial-life simulation of enzyme-driven protocells",
		Long: `protocell simulates cells carrying mutable genomes of catalytic enzymes on a
toroidal grid of diffusing molecules, temperature and solute fields.

Configuration comes from DefaultConfig, then --config (YAML), then --set key=value
overrides. Use "protocell params" to list the override keys.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to the config value")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringArrayVar(&c.overrides, "set", nil, "config override in key=value form (repeatable)")

	root.AddCommand(
		newRunCmd(c),
		newSweepCmd(c),
		newServeCmd(c),
		newParamsCmd(c),
		newViewCmd(c),
	)
	return root
}

// setup resolves the layered config and builds the logger.
func (c *cli) setup() error {
	cfg := protocell.DefaultConfig()
	if c.configPath != "" {
		loaded, err := protocell.LoadConfig(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	kv, err := parseOverrides(c.overrides)
	if err != nil {
		return err
	}
	if err := cfg.Apply(kv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	level := c.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger, err := logging.New(level, c.verbose)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// parseOverrides turns key=value pairs into a map. Later pairs win.
func parseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("override %q: expected key=value", p)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
