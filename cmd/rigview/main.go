// Command rigview views skeletal animation assets and serves them over HTTP.
//
//	rigview view hero --costume summer --mode cutscene
//	rigview view hero --script capture.yaml
//	rigview serve --addr :8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debug      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rigview",
		Short:         "skeletal animation viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "rigview.yaml", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	rootCmd.AddCommand(newViewCmd(), newServeCmd(), newCharactersCmd())
	return rootCmd
}

func newCharactersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "list configured characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Load(configFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ch := range catalog(cfg) {
				fmt.Fprintf(out, "%-16s %-16s %v\n", ch.Name, ch.Costume, ch.Modes)
			}
			return nil
		},
	}
}
