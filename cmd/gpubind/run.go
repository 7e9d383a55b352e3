package main

import (
	"fmt"

	"github.com/gogpu/gpubind"
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpubind/session"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render the triangle demo on a headless canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}
	def := DefaultConfig().Canvas
	f := cmd.Flags()
	f.Uint32("width", def.Width, "canvas width in pixels")
	f.Uint32("height", def.Height, "canvas height in pixels")
	f.StringSlice("clear", []string{"0", "0", "0", "1"}, "clear color as r,g,b,a")
	f.String("out", "", "write the rendered frame to this PNG file")
	f.Int("scale", def.Scale, "integer upscale factor for the PNG")
	f.StringSlice("feature", nil, "required device feature (repeatable)")
	return cmd
}

func (a *app) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := gpubind.Logger()

	p, err := a.platform()
	if err != nil {
		return err
	}
	factory, ok := p.(hal.CanvasFactory)
	if !ok {
		return fmt.Errorf("platform %s cannot create headless canvases", p.Name())
	}
	cc := a.cfg.Canvas
	canvas := factory.NewCanvas(cc.Width, cc.Height)

	var clearColor [4]float64
	copy(clearColor[:], cc.Clear)
	opts := []session.Option{
		session.WithClearColor(clearColor),
		session.WithAdapterOptions(a.adapterOptions()...),
	}
	if len(a.cfg.Adapter.Features) > 0 {
		opts = append(opts, session.WithDeviceOptions(gpubind.WithRequiredFeatures(a.cfg.Adapter.Features...)))
	}

	s, err := session.Run(ctx, p, canvas, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.AdapterInfo()
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %dx%d on %s (%s), format %s, %d command buffers submitted\n",
		cc.Width, cc.Height, info.Name, p.Name(), hal.TextureFormatName(s.SurfaceFormat()), s.Submitted())

	if cc.Out == "" {
		return nil
	}
	snap, ok := canvas.(hal.Snapshotter)
	if !ok {
		return fmt.Errorf("platform %s cannot read canvases back", p.Name())
	}
	img, err := snap.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read back frame: %w", err)
	}
	if err := writePNG(cc.Out, img, cc.Scale); err != nil {
		return err
	}
	log.Info("frame written", "path", cc.Out, "scale", cc.Scale)
	return nil
}
