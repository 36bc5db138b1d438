package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

var (
	// Version is the main version number
	Version = "0.1.0"

	// VersionPrerelease is a prerelease marker
	VersionPrerelease = "dev"

	// buildstamp is the timestamp the binary was built, it should be set at buildtime with ldflags
	buildstamp = "No BuildStamp Provided"

	// githash is the git sha of the built binary, it should be set at buildtime with ldflags
	githash = "No Git Commit Provided"
)

func main() {
	root := newRootCmd()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		log.Error(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setLogLevel sets the loglevel, info if it's unset or unknown
func setLogLevel(level string) {
	switch level {
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
