package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/medbilling/cmd/app/commands"
	"github.com/allisson/medbilling/internal/app"
	"github.com/allisson/medbilling/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				logger := container.Logger()
				defer func() { _ = container.Close() }()

				return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "clean-audit-events",
			Usage: "Delete audit events older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Value:   0,
					Usage:   "Delete audit events older than this many days (0 uses AUDIT_RETENTION_DAYS)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many events would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Close() }()

				auditEventUseCase, err := container.AuditEventUseCase()
				if err != nil {
					return err
				}

				days := int(cmd.Int("days"))
				if days == 0 {
					days = cfg.AuditRetentionDays
				}

				return commands.RunCleanAuditEvents(
					ctx,
					auditEventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					days,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "verify-audit-events",
			Usage: "Verify cryptographic integrity of audit events",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "start-date",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Start date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				&cli.StringFlag{
					Name:     "end-date",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "End date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Close() }()

				auditEventUseCase, err := container.AuditEventUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyAuditEvents(
					ctx,
					auditEventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("start-date"),
					cmd.String("end-date"),
					cmd.String("format"),
				)
			},
		},
	}
}
