package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	file      string
	server    string
	gameID    string
	hostToken string
	timeout   time.Duration
	dryRun    bool
}

func (c *Config) validate() error {
	if c.file == "" {
		return errors.New("--file is required")
	}
	if c.dryRun {
		return nil
	}
	if c.gameID == "" || c.hostToken == "" {
		return errors.New("--game and --host-token are required unless --dry-run is set")
	}
	if !strings.HasPrefix(c.server, "http://") && !strings.HasPrefix(c.server, "https://") {
		return fmt.Errorf("invalid server URL: %s", c.server)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("REGEX_GAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "load-questions",
		Short: "Upload a question CSV to a game that is still in setup.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.file, "file", "f", "questions.csv", "path to the question csv (env: REGEX_GAME_FILE)")
	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8080", "base URL of the game server (env: REGEX_GAME_SERVER)")
	fs.StringVarP(&cfg.gameID, "game", "g", "", "id of the game to load (env: REGEX_GAME_GAME)")
	fs.StringVar(&cfg.hostToken, "host-token", "", "host token returned when the game was created (env: REGEX_GAME_HOST_TOKEN)")
	fs.DurationVar(&cfg.timeout, "timeout", 15*time.Second, "request timeout (env: REGEX_GAME_TIMEOUT)")
	fs.BoolVar(&cfg.dryRun, "dry-run", false, "parse and print the questions without uploading (env: REGEX_GAME_DRY_RUN)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
