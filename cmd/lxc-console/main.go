// Command lxc-console attaches the calling terminal to a running
// container's pty, the Go counterpart of
// original_source/src/lxc/lxc_console.c's `-n`/`-t`/`-e` CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mihalicyn/golxc/internal/console"
)

func main() {
	var name, escape string
	var tty int

	root := &cobra.Command{
		Use:           "lxc-console",
		Short:         "Attach to a running container's console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("-n NAME is required")
			}
			code, err := console.Attach(name, tty, escape)
			os.Exit(code)
			return err
		},
	}
	root.Flags().StringVarP(&name, "name", "n", "", "container name")
	root.Flags().IntVarP(&tty, "tty", "t", 0, "tty index to attach")
	root.Flags().StringVarP(&escape, "escape", "e", "", "escape key expression, default ^A")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lxc-console: %v\n", err)
		os.Exit(1)
	}
}
