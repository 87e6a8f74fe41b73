package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dexter3k/watre/dualexe/ext/blob"
	"github.com/dexter3k/watre/dualexe/ext/exe"
	"github.com/spf13/cobra"
)

// InspectCmd holds the inspect cmd flags
type InspectCmd struct{}

// NewInspectCmd creates a new inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &InspectCmd{}
	return &cobra.Command{
		Use:   "inspect program.exe",
		Short: "Prints the DOS header, extender stub and PE section table of an executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Run(os.Stdout, args[0])
		},
	}
}

// Run runs the command logic
func (cmd *InspectCmd) Run(w io.Writer, path string) error {
	source, err := blob.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	file, err := exe.Read(source.Bytes())
	if err != nil {
		return err
	}

	printFile(w, file)
	return nil
}

func printFile(w io.Writer, file *exe.File) {
	dos := file.Dos
	fmt.Fprintf(w, "DOS image: %08x bytes, header %d paragraphs\n", file.ImageSize, dos.HeaderParagraphs)
	fmt.Fprintf(w, "  relocs: %d at %04x\n", dos.Relocs, dos.RelocTable)
	fmt.Fprintf(w, "  stub: %s\n", file.Stub)
	fmt.Fprintf(w, "  new header: %08x\n", dos.PeHeaderOffset)

	if file.Pe == nil {
		return
	}

	fmt.Fprintf(w, "PE machine %04x, %s optional header (%d bytes)", file.Pe.Machine, file.Optional, file.Pe.OptionalHeaderSize)
	if file.Optional.HasSizeOfHeaders() {
		fmt.Fprintf(w, ", SizeOfHeaders %08x", file.SizeOfHeaders)
	}
	fmt.Fprintln(w)

	for _, entry := range file.Sections {
		fmt.Fprintf(w, "%8s: %08x+%6x -> %08x+%6x\n",
			entry.Name,
			entry.RawOffset, entry.RawSize,
			entry.VirtualAddress, entry.VirtualSize,
		)
	}
}
