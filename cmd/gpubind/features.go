package main

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/spf13/cobra"
)

func newFeaturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Print the selected adapter and its features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := a.requestAdapter(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			info := adapter.Info()
			fmt.Fprintf(out, "adapter: %s (%s)\n", info.Name, adapterTypeName(info.Type))
			for _, f := range adapter.Features() {
				fmt.Fprintf(out, "feature: %s\n", f)
			}
			return nil
		},
	}
}

func adapterTypeName(t gpucontext.AdapterType) string {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return "discrete"
	case gpucontext.AdapterTypeIntegrated:
		return "integrated"
	case gpucontext.AdapterTypeSoftware:
		return "software"
	default:
		return "unknown"
	}
}
