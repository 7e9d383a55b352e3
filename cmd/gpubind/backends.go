package main

import (
	"fmt"

	"github.com/gogpu/gpubind/hal"
	"github.com/spf13/cobra"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the registered platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range hal.Available() {
				p, err := hal.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-10s preferred format %s\n", name, p.PreferredCanvasFormat())
			}
			return nil
		},
	}
}
