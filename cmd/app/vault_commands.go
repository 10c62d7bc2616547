package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ugcforge/credvault/cmd/app/commands"
	"github.com/ugcforge/credvault/internal/app"
	"github.com/ugcforge/credvault/internal/config"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
	"github.com/ugcforge/credvault/internal/vision"
)

func serviceFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    "service",
		Aliases: []string{"s"},
		Value:   vaultDomain.DefaultService,
		Usage:   usage,
	}
}

func kmsKeyURIFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "kms-key-uri",
		Usage: "KMS keeper URI (base64key://, hashivault://, awskms://, gcpkms://, azurekeyvault://); defaults to BACKUP_KMS_KEY_URI",
	}
}

// withVault runs fn with a container built from the environment.
func withVault(ctx context.Context, fn func(container *app.Container, prompter *commands.Prompter) error) error {
	container := app.NewContainer(config.Load())
	defer func() { _ = container.Shutdown(ctx) }()

	return fn(container, commands.NewPrompter(commands.DefaultIO()))
}

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "setup",
			Usage: "Create a master password and store the OpenAI API key",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					useCase, err := container.VaultUseCase()
					if err != nil {
						return err
					}
					return commands.RunSetup(ctx, useCase, prompter, commands.DefaultIO().Writer, container.Logger())
				})
			},
		},
		{
			Name:  "store-key",
			Usage: "Add or update the API key of a service",
			Flags: []cli.Flag{serviceFlag("Service name")},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					useCase, err := container.VaultUseCase()
					if err != nil {
						return err
					}
					return commands.RunStoreKey(ctx, useCase, prompter, commands.DefaultIO().Writer, cmd.String("service"))
				})
			},
		},
		{
			Name:  "get-key",
			Usage: "Print the API key of a service",
			Flags: []cli.Flag{
				serviceFlag("Service name"),
				&cli.BoolFlag{
					Name:  "reveal",
					Value: false,
					Usage: "Print the full key instead of a masked form",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					useCase, err := container.VaultUseCase()
					if err != nil {
						return err
					}
					return commands.RunGetKey(
						ctx,
						useCase,
						prompter,
						commands.DefaultIO().Writer,
						cmd.String("service"),
						cmd.Bool("reveal"),
					)
				})
			},
		},
		{
			Name:  "list-services",
			Usage: "List the services with a stored API key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					useCase, err := container.VaultUseCase()
					if err != nil {
						return err
					}
					return commands.RunListServices(ctx, useCase, prompter, commands.DefaultIO().Writer, cmd.String("format"))
				})
			},
		},
		{
			Name:  "delete-key",
			Usage: "Delete the API key of a service",
			Flags: []cli.Flag{
				serviceFlag("Service name"),
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Value:   false,
					Usage:   "Delete without asking for confirmation",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					useCase, err := container.VaultUseCase()
					if err != nil {
						return err
					}
					return commands.RunDeleteKey(
						ctx,
						useCase,
						prompter,
						commands.DefaultIO().Writer,
						cmd.String("service"),
						cmd.Bool("yes"),
					)
				})
			},
		},
		{
			Name:  "test-connection",
			Usage: "Send a probe request to the OpenAI API with the stored key",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					useCase, err := container.VaultUseCase()
					if err != nil {
						return err
					}
					newTester := func(apiKey string) (commands.ConnectionTester, error) {
						return vision.NewClient(apiKey, container.VisionConfig(), container.Logger())
					}
					return commands.RunTestConnection(ctx, useCase, prompter, commands.DefaultIO().Writer, newTester)
				})
			},
		},
		{
			Name:  "export-backup",
			Usage: "Export all keys sealed by a KMS keeper",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Backup file path, or '-' for stdout",
				},
				kmsKeyURIFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					backupUseCase, err := container.BackupUseCase()
					if err != nil {
						return err
					}
					return commands.RunExportBackup(
						ctx,
						backupUseCase,
						prompter,
						commands.DefaultIO().Writer,
						cmd.String("out"),
						cmd.String("kms-key-uri"),
					)
				})
			},
		},
		{
			Name:  "import-backup",
			Usage: "Merge a KMS-sealed backup into the vault",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "in",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Backup file path",
				},
				kmsKeyURIFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withVault(ctx, func(container *app.Container, prompter *commands.Prompter) error {
					backupUseCase, err := container.BackupUseCase()
					if err != nil {
						return err
					}
					return commands.RunImportBackup(
						ctx,
						backupUseCase,
						prompter,
						commands.DefaultIO().Writer,
						cmd.String("in"),
						cmd.String("kms-key-uri"),
					)
				})
			},
		},
	}
}
