package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/medbilling/cmd/app/commands"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-encryption-key",
			Usage: "Generate a new key for field-level PHI encryption",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "KMS key URI to wrap the key with (e.g. gcpkms://..., awskms://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateEncryptionKey(
					ctx,
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
