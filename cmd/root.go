package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "teletext",
		Usage: "A teletext style RSS/Atom news reader",
		Description: `Teletext aggregates RSS and Atom feeds into a single
		de-duplicated, newest-first article list, with per-user bookmarks,
		read tracking and settings persisted as flat JSON files.

		Flags can generally be set via environment variables, e.g.:

		--data-dir => TELETEXT_DATA_DIR=data
		--port => TELETEXT_PORT=8000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			feedsCmd(),
			opmlCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
