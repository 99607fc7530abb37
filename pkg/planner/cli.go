package planner

import (
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
	"github.com/yummytutel/idfm/pkg/config"
	"github.com/yummytutel/idfm/pkg/util"
)

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML file overriding the built-in configuration",
		},
		&cli.StringFlag{
			Name:  "date",
			Usage: "target date as YYYY-MM-DD, defaults to today",
		},
		&cli.IntFlag{
			Name:  "margin",
			Usage: "safety margin in minutes added to the travel time",
		},
		&cli.StringFlag{
			Name:  "calendar-url",
			Usage: "iCal feed to read the appointments from",
		},
		&cli.StringFlag{
			Name:  "home",
			Usage: "origin as latitude,longitude",
		},
		&cli.StringFlag{
			Name:  "destination",
			Usage: "destination as latitude,longitude",
		},
		&cli.StringFlag{
			Name:  "timezone",
			Usage: "timezone the target date and times are expressed in",
		},
		&cli.StringFlag{
			Name:  "dump",
			Usage: "file receiving the raw journey response, empty to disable",
		},
	}
}

// loadConfig layers defaults, the config file, the environment and finally flags
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()

	if c.IsSet("config") {
		if err := cfg.LoadFile(c.String("config")); err != nil {
			return cfg, err
		}
	}

	cfg.ApplyEnvironment(util.GetEnvironmentVariables())

	if c.IsSet("date") {
		cfg.TargetDate = c.String("date")
	}
	if c.IsSet("margin") {
		cfg.SafetyMarginMinutes = c.Int("margin")
	}
	if c.IsSet("calendar-url") {
		cfg.CalendarURL = c.String("calendar-url")
	}
	if c.IsSet("timezone") {
		cfg.Timezone = c.String("timezone")
	}
	if c.IsSet("dump") {
		cfg.DumpPath = c.String("dump")
	}
	if c.IsSet("home") {
		home, err := config.ParseCoordinates(c.String("home"))
		if err != nil {
			return cfg, err
		}
		cfg.Home = home
	}
	if c.IsSet("destination") {
		destination, err := config.ParseCoordinates(c.String("destination"))
		if err != nil {
			return cfg, err
		}
		cfg.Destination = destination
	}

	return cfg, cfg.Validate()
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "find the first appointment of the day and when to leave for it",
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			return NewPlanner(cfg, c.App.Writer).Run(c.Context)
		},
	}
}

func RegisterShowConfigCLI() *cli.Command {
	return &cli.Command{
		Name:  "show-config",
		Usage: "print the effective configuration",
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			cfg.APIKey = util.MaskSecret(cfg.APIKey)
			pretty.Fprintf(c.App.Writer, "%# v\n", cfg)

			return nil
		},
	}
}
