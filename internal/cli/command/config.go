package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/rentdesk-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group. It runs without a
// session or API connection.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Local CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (secrets masked)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write a default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "validate",
				Usage:  "Check the configuration without contacting the API",
				Action: configValidate,
			},
		},
	}
}

// configFile returns --config or the default path.
func configFile(c *cli.Context) string {
	if path := c.String("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(stdout(c))
	enc.SetIndent(2)
	if err := enc.Encode(config.Sanitize(cfg)); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func configPath(c *cli.Context) error {
	fmt.Fprintln(stdout(c), configFile(c))
	return nil
}

func configInit(c *cli.Context) error {
	path := configFile(c)

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return &messageError{msg: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	notify(c, "Wrote %s", path)
	return nil
}

func configValidate(c *cli.Context) error {
	if _, err := loadConfig(c); err != nil {
		return err
	}
	notify(c, "✓ Configuration is valid")
	return nil
}
