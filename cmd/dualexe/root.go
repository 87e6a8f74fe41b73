package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd returns a new root command
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "dualexe",
		Short:         "Builds executables that run under both DOS and Windows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	rootCmd := BuildRoot()

	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// BuildRoot creates a new root command with all subcommands attached
func BuildRoot() *cobra.Command {
	rootCmd := NewRootCmd()
	globalFlags := SetGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewBuildCmd(globalFlags))
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}
