// Command colseries generates, stores and inspects typed column frames packed
// into fixed-stride row buffers.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := newApp(out)

	root := &cobra.Command{
		Use:   "colseries",
		Short: "colseries - typed columns over fixed-stride row buffers",
		Long: `colseries builds frames of typed columns (float64, int64, timestamp),
packs them into fixed-stride row buffers and keeps those buffers in a
document store (a local directory, MongoDB or process memory).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}
	root.SetOut(out)
	a.bindFlags(root)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "colseries v%s\n", version)
			fmt.Fprintf(a.out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(
		newGenerateCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newConfigCmd(a),
	)

	// PersistentPostRunE is skipped when RunE fails, so release resources here too.
	for _, sub := range root.Commands() {
		if sub.RunE == nil {
			continue
		}
		runE := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if terr := a.teardown(cmd.Context()); err == nil {
					err = terr
				}
			}()
			return runE(cmd, args)
		}
	}
	return root
}
