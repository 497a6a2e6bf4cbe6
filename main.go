package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"tileicons/logging"
	"tileicons/tileset"
)

type cli struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info"`
	LogFile  string `help:"Also write logs to this file, rotated at 10MB"`

	Run tileset.CLICmd `cmd:"" default:"withargs" help:"Render the tile icons and write them to the output folder"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("tileicons"),
		kong.Description("Render labeled tile icons from a background image and a set of glyphs."),
		kong.UsageOnError(),
		kong.Configuration(tileset.TOMLLoader),
	)

	logger, closer, err := logging.Setup(c.LogLevel, c.LogFile)
	kctx.FatalIfErrorf(err)

	err = kctx.Run(logger)
	if err != nil {
		logger.Error("run failed", "error", err)
	}
	if closeErr := closer.Close(); closeErr != nil {
		slog.Error("could not close log file", "error", closeErr)
	}
	kctx.FatalIfErrorf(err)
}
