package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luma/meteo/cmd/gen"
)

var RootCmd = &cobra.Command{
	Use:   "meteo",
	Short: "Weather readings over UDP",
	Long: `Meteo answers weather queries for a fixed set of cities over UDP.

Usage
	meteo serve
	meteo query -r "t roma"
`,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(QueryCmd)
	RootCmd.AddCommand(VersionCmd)
	RootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
