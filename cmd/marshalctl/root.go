package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wippyai/interop/config"
	"github.com/wippyai/interop/dispatch"
	"github.com/wippyai/interop/feature"
	"github.com/wippyai/interop/invoke"
	"github.com/wippyai/interop/registry"
)

// app holds state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "marshalctl",
		Short:         "Inspect the interop marshal kind registry",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./interop.yaml)")
	f.StringP("profile", "p", feature.ProfileHost, "feature profile: "+strings.Join(feature.Profiles(), ", "))
	f.StringSlice("features", nil, "additional feature flags to enable")
	f.String("schema", "", "declaration table to use instead of the embedded one")
	f.BoolP("verbose", "v", false, "verbose development logging")
	for _, name := range []string{"profile", "features", "schema", "verbose"} {
		_ = a.v.BindPFlag(name, f.Lookup(name))
	}

	root.AddCommand(
		newListCmd(a),
		newResolveCmd(a),
		newManifestCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log, err = newLogger(cfg.Verbose); err != nil {
		return err
	}
	registry.SetLogger(a.log)
	invoke.SetLogger(a.log)
	return nil
}

// dispatcher builds a dispatcher for the configured profile.
func (a *app) dispatcher() (*dispatch.Dispatcher, error) {
	reg, err := a.cfg.Registry()
	if err != nil {
		return nil, err
	}
	return dispatch.New(reg), nil
}

// newLogger returns a development logger when verbose, otherwise a
// production logger that only reports warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
