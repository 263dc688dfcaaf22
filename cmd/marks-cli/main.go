package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marks-cli",
		Short:         "Administration tool for the marks bookmark server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(tokenCmd())
	root.AddCommand(hashPasswordCmd())
	root.AddCommand(aliasCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(purgeCmd())

	return root
}
