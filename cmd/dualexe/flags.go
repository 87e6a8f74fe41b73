package main

import (
	"os"

	"github.com/loft-sh/log"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

type GlobalFlags struct {
	Debug  bool
	Silent bool
}

// SetGlobalFlags applies the global flags
func SetGlobalFlags(flags *flag.FlagSet) *GlobalFlags {
	globalFlags := &GlobalFlags{}

	flags.BoolVar(&globalFlags.Debug, "debug", false, "Prints every header change made during a build")
	flags.BoolVar(&globalFlags.Silent, "silent", false, "Run in silent mode and prevents any log output except fatals")
	return globalFlags
}

// Level is the log level selected by the flags.
func (g *GlobalFlags) Level() logrus.Level {
	switch {
	case g.Debug:
		return logrus.DebugLevel
	case g.Silent:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// Logger returns a new stdout logger at Level.
func (g *GlobalFlags) Logger() log.Logger {
	return log.NewStreamLogger(os.Stdout, os.Stderr, g.Level())
}
