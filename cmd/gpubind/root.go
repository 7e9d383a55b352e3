package main

import (
	"context"
	"fmt"

	"github.com/gogpu/gpubind"
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
	"github.com/spf13/cobra"
)

// app is the state shared by the subcommands.
type app struct {
	cfgFile string
	cfg     Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	v := newViper()

	root := &cobra.Command{
		Use:           "gpubind",
		Short:         "Typed WebGPU bindings: headless triangle demo and tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loadConfig(v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			gpubind.SetLogger(cfg.Log.newLogger(cmd.ErrOrStderr()))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("platform", DefaultConfig().Platform, "platform name (see 'gpubind backends')")
	pf.String("log-level", DefaultConfig().Log.Level, "log level: debug, info, warn or error")
	pf.String("power-preference", "", "adapter power preference: low-power or high-performance")
	pf.Bool("force-fallback", false, "request the fallback (software) adapter")

	root.AddCommand(
		newRunCmd(a),
		newBackendsCmd(),
		newFeaturesCmd(a),
		newValidateCmd(),
	)
	return root
}

// platform looks up the configured platform in the registry.
func (a *app) platform() (hal.Platform, error) {
	return hal.Lookup(a.cfg.Platform)
}

func (a *app) adapterOptions() []gpubind.AdapterOption {
	var opts []gpubind.AdapterOption
	switch a.cfg.Adapter.PowerPreference {
	case "low-power":
		opts = append(opts, gpubind.WithPowerPreference(gputypes.PowerPreferenceLowPower))
	case "high-performance":
		opts = append(opts, gpubind.WithPowerPreference(gputypes.PowerPreferenceHighPerformance))
	}
	if a.cfg.Adapter.ForceFallback {
		opts = append(opts, gpubind.WithForceFallbackAdapter(true))
	}
	return opts
}

// requestAdapter opens the configured platform and selects an adapter.
func (a *app) requestAdapter(ctx context.Context) (*gpubind.Adapter, error) {
	p, err := a.platform()
	if err != nil {
		return nil, err
	}
	g, err := gpubind.NewGPU(p)
	if err != nil {
		return nil, err
	}
	adapter, err := g.RequestAdapter(ctx, a.adapterOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	return adapter, nil
}
