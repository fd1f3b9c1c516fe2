// Command lxc-create writes a fresh container configuration, the Go
// counterpart of original_source/src/lxc/lxc_create.c's `-n`/`-f` CLI
// surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mihalicyn/golxc/internal/lxcconf"
)

func main() {
	var name, template string

	root := &cobra.Command{
		Use:           "lxc-create",
		Short:         "Create a container configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("-n NAME is required")
			}
			return lxcconf.Create(name, template)
		},
	}
	root.Flags().StringVarP(&name, "name", "n", "", "container name")
	root.Flags().StringVarP(&template, "file", "f", "", "config template to apply")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lxc-create: %v\n", err)
		os.Exit(1)
	}
}
