package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"teletext/models"
)

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch all active feeds once and print the articles",
		Description: `Runs one aggregation cycle over every active feed and prints
the merged, newest-first article list to stdout.

Returns each article as a JSON object on a single line. Use a tool like jq
to process the output.

Prints all other log messages to stderr.`,
		Flags: commonFlags(),
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the article stream
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			_, _, pipeline, _ := buildCore(cfg)

			for _, article := range pipeline.FetchAll(ctx.Context) {
				printStdout(&article)
			}
			return nil
		},
	}
}

func printStdout(article *models.Article) {
	// Print as single JSON string on a single line
	articleJson, err := json.Marshal(article)
	if err == nil {
		fmt.Println(string(articleJson))
	}
}
