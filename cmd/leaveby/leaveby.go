package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/yummytutel/idfm/pkg/planner"

	_ "time/tzdata"
)

func main() {
	// stdout is reserved for the itinerary itself
	if os.Getenv("LEAVEBY_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if os.Getenv("LEAVEBY_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "leaveby",
		Description: "Works out when to leave home to make the first appointment of the day by public transport",

		DefaultCommand: "plan",
		Commands: []*cli.Command{
			planner.RegisterCLI(),
			planner.RegisterShowConfigCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
