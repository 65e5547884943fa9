package cmd

import (
	"fmt"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

func feedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "Manage feed subscriptions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all feed subscriptions",
				Flags: commonFlags(),
				Action: func(ctx *cli.Context) error {
					cfg, err := loadConfig(ctx)
					if err != nil {
						return err
					}
					registry, _, _, _ := buildCore(cfg)
					for _, sub := range registry.List() {
						marker := " "
						if sub.Active {
							marker = "*"
						}
						fmt.Printf("%s %s\n", marker, sub.URL)
					}
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Add a feed subscription",
				ArgsUsage: "<url>",
				Flags:     commonFlags(),
				Action: func(ctx *cli.Context) error {
					url := ctx.Args().First()
					if url == "" {
						return fmt.Errorf("please specify a feed URL")
					}
					cfg, err := loadConfig(ctx)
					if err != nil {
						return err
					}
					registry, _, _, _ := buildCore(cfg)
					added, err := registry.Add(url)
					if err != nil {
						return err
					}
					if !added {
						fmt.Println("Feed already exists")
						return nil
					}
					fmt.Println("Feed added")
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a feed subscription",
				ArgsUsage: "<url>",
				Flags:     commonFlags(),
				Action: func(ctx *cli.Context) error {
					url := ctx.Args().First()
					if url == "" {
						return fmt.Errorf("please specify a feed URL")
					}

					answer, err := prompt.New().Ask(fmt.Sprintf("Remove %s?", url)).
						Choose([]string{"Yes", "No"})
					if err != nil {
						return err
					}
					if answer != "Yes" {
						return nil
					}

					cfg, err := loadConfig(ctx)
					if err != nil {
						return err
					}
					registry, _, _, _ := buildCore(cfg)
					removed, err := registry.Remove(url)
					if err != nil {
						return err
					}
					if !removed {
						fmt.Println("Feed not found")
						return nil
					}
					fmt.Println("Feed removed")
					return nil
				},
			},
		},
	}
}
