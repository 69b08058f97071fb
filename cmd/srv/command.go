package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "bskmt"
	app.Usage = "The membership backend of the club"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api server",
			Category:    "Api",
			Description: `Starts the main service with all apis.`,
		},
		{
			Action:      s.runMigration,
			Name:        "migrate",
			Usage:       "Run the database migrations",
			Category:    "Database",
			Description: `Brings the schema up to date and seeds the achievement catalog.`,
		},
	}

	s.app = app
}
