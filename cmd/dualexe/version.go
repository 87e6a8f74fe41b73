package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at link time with -ldflags "-X main.version=..."
var version = "dev"

// VersionCmd holds the version cmd flags
type VersionCmd struct{}

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	cmd := &VersionCmd{}
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}
}

// Run runs the command logic
func (cmd *VersionCmd) Run(_ *cobra.Command, _ []string) error {
	fmt.Println(version)
	return nil
}
