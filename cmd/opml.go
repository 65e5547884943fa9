package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"teletext/feeds"
)

func opmlCmd() *cli.Command {
	return &cli.Command{
		Name:  "opml",
		Usage: "Import and export feed subscriptions as OPML",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write the feed list as OPML to stdout",
				Flags: commonFlags(),
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx)
					if err != nil {
						return err
					}
					registry, _, _, _ := buildCore(cfg)
					fmt.Println(feeds.ExportOPML(registry.URLs()))
					return nil
				},
			},
			{
				Name:      "import",
				Usage:     "Import feeds from an OPML file",
				ArgsUsage: "<file>",
				Flags:     commonFlags(),
				Action: func(ctx *cli.Context) error {
					path := ctx.Args().First()
					if path == "" {
						return fmt.Errorf("please specify an OPML file")
					}
					content, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("could not read OPML file: %w", err)
					}

					cfg, err := loadConfig(ctx)
					if err != nil {
						return err
					}
					registry, _, _, _ := buildCore(cfg)
					imported, err := registry.ImportURLs(feeds.ImportOPML(string(content)))
					if err != nil {
						return err
					}
					fmt.Printf("Imported %d feeds\n", imported)
					return nil
				},
			},
		},
	}
}
