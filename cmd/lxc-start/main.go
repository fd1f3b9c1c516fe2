// Command lxc-start brings up a container, the Go counterpart of
// original_source/src/lxc/lxc_start.c's `-n`/`-d`/`-f` CLI surface
// plus the `--` COMMAND passed through to the container's init.
//
// When re-exec'd as the container's own init process (os.Args[0] ==
// launch.ReExecMarker, set by Handler.Start via cmd.Args), main
// dispatches straight to launch.RunChildInit instead of parsing flags
// — this process never returns to cobra.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mihalicyn/golxc/internal/launch"
	"github.com/mihalicyn/golxc/internal/lxcconf"
	"github.com/mihalicyn/golxc/internal/rtctx"
)

func main() {
	if len(os.Args) > 0 && os.Args[0] == launch.ReExecMarker {
		launch.RunChildInit()
		os.Exit(1) // RunChildInit only returns on failure it has already reported
	}

	var name, rcfile string
	var daemonize bool

	root := &cobra.Command{
		Use:           "lxc-start",
		Short:         "Start a container",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("-n NAME is required")
			}
			code, err := run(name, rcfile, daemonize, args)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}
	root.Flags().StringVarP(&name, "name", "n", "", "container name")
	root.Flags().StringVarP(&rcfile, "rcfile", "f", "", "alternate configuration file")
	root.Flags().BoolVarP(&daemonize, "daemon", "d", false, "daemonize: return immediately once running")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lxc-start: %v\n", err)
		os.Exit(1)
	}
}

func run(name, rcfile string, daemonize bool, args []string) (int, error) {
	conf, err := loadConf(name, rcfile)
	if err != nil {
		return 1, err
	}

	ctx, err := rtctx.New(false)
	if err != nil {
		return 1, err
	}
	defer ctx.Close()

	h := launch.New(ctx, conf)

	initProgram, initArgs := "", []string(nil)
	if len(args) > 0 {
		initProgram, initArgs = args[0], args[1:]
	}
	if err := h.Start(initProgram, initArgs); err != nil {
		return 1, err
	}

	if daemonize {
		return 0, nil
	}
	return h.Wait()
}

func loadConf(name, rcfile string) (*lxcconf.Conf, error) {
	if rcfile == "" {
		return lxcconf.Load(name)
	}
	conf := lxcconf.NewDefault(name)
	f, err := os.Open(rcfile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := lxcconf.Parse(f, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
