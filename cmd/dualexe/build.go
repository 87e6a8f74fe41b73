package main

import (
	"github.com/dexter3k/watre/dualexe/ext/blob"
	"github.com/dexter3k/watre/dualexe/ext/exe"
	"github.com/dexter3k/watre/dualexe/ext/recipe"
	"github.com/dexter3k/watre/dualexe/ext/universal"
	"github.com/loft-sh/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// BuildCmd holds the build cmd flags
type BuildCmd struct {
	*GlobalFlags

	Dos    string
	Win    string
	Output string
	Tag    string
	Recipe string
}

// NewBuildCmd creates a new build command
func NewBuildCmd(flags *GlobalFlags) *cobra.Command {
	cmd := &BuildCmd{
		GlobalFlags: flags,
	}
	buildCmd := &cobra.Command{
		Use:   "build [flags]",
		Short: "Combines a DOS executable and a Windows executable into one file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Run(cmd.Logger())
		},
	}

	buildCmd.Flags().StringVar(&cmd.Dos, "dos", "", "The DOS (MZ) executable")
	buildCmd.Flags().StringVar(&cmd.Win, "win", "", "The Windows (PE) executable")
	buildCmd.Flags().StringVarP(&cmd.Output, "output", "o", "", "Where to write the combined executable")
	buildCmd.Flags().StringVar(&cmd.Tag, "tag", "", "Identification text stored in the header. Overrides the recipe")
	buildCmd.Flags().StringVarP(&cmd.Recipe, "recipe", "f", "", "A YAML recipe describing one or more builds")
	return buildCmd
}

// Run runs the command logic
func (cmd *BuildCmd) Run(logger log.Logger) error {
	builds, err := cmd.builds()
	if err != nil {
		return err
	}

	for _, b := range builds {
		if cmd.Tag != "" {
			b.Tag = cmd.Tag
		}

		err := build(b, logger)
		if err != nil {
			return errors.Wrapf(err, "build %s", b.Output)
		}
	}

	return nil
}

func (cmd *BuildCmd) builds() ([]recipe.Build, error) {
	if cmd.Recipe != "" {
		if cmd.Dos != "" || cmd.Win != "" || cmd.Output != "" {
			return nil, errors.New("--recipe cannot be combined with --dos, --win or --output")
		}

		r, err := recipe.Load(cmd.Recipe)
		if err != nil {
			return nil, err
		}
		return r.Builds, nil
	}

	if cmd.Dos == "" || cmd.Win == "" || cmd.Output == "" {
		return nil, errors.New("either --recipe or all of --dos, --win and --output are required")
	}

	return []recipe.Build{{
		Dos:    cmd.Dos,
		Win:    cmd.Win,
		Output: cmd.Output,
	}}, nil
}

func build(b recipe.Build, logger log.Logger) error {
	dos, err := blob.Open(b.Dos)
	if err != nil {
		return errors.Wrap(err, "dos input")
	}
	defer dos.Close()

	win, err := blob.Open(b.Win)
	if err != nil {
		return errors.Wrap(err, "windows input")
	}
	defer win.Close()

	image, err := universal.Build(dos.Bytes(), win.Bytes(), universal.Options{
		Tag:    b.Tag,
		Logger: logger,
	})
	if err != nil {
		if exe.IsFormatError(err) {
			logger.Debugf("%s and %s rejected, %s left untouched", b.Dos, b.Win, b.Output)
		}
		return err
	}

	report := image.Report
	logger.Infof("%s: header %d -> %d paragraphs, relocation table moved: %v, stub: %s",
		b.Dos, report.ParagraphsBefore, report.ParagraphsAfter, report.RelocTableMoved, report.Stub)
	logger.Infof("%s: PE header at 0x%x, image appended at 0x%x, %d section pointers rebased",
		b.Win, report.HeaderOffset, report.WinOffset, report.Rebased)

	err = blob.WriteFile(b.Output, image.Bytes, 0755)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	logger.Donef("Wrote %s (%d bytes)", b.Output, len(image.Bytes))
	return nil
}
