package main

import (
	"fmt"

	"github.com/YaleSpinup/ecs-sim/api"
	"github.com/YaleSpinup/ecs-sim/common"
	"github.com/YaleSpinup/ecs-sim/ecs"
	"github.com/YaleSpinup/ecs-sim/orchestration"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecs-sim",
		Short: "ecs-sim: an in-memory ECS control plane",
		Long:  "ecs-sim registers task definitions and runs tasks against simulated ECS accounts, in process or over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("log", "l", "", "Set log level, overriding the configuration. Available: debug, info, warn, error")
	cmd.PersistentFlags().StringP("config", "c", "config/config.json", "Configuration file (JSON or YAML)")

	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		if level, _ := c.Flags().GetString("log"); level != "" {
			setLogLevel(level)
		}
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads the configuration from the config flag and sets the log level from it unless
// the log flag is set
func loadConfig(cmd *cobra.Command) (common.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	config, err := common.LoadConfig(path)
	if err != nil {
		return config, errors.Wrapf(err, "unable to read configuration from %s", path)
	}

	if level, _ := cmd.Flags().GetString("log"); level == "" {
		setLogLevel(config.LogLevel)
	}

	config.Version = common.Version{
		Version:           Version,
		VersionPrerelease: VersionPrerelease,
		BuildStamp:        buildstamp,
		GitHash:           githash,
	}

	log.Debugf("Read config: %+v", config)

	return config, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulated accounts over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log.Infof("Starting ecs-sim version %s%s", Version, VersionPrerelease)

			return api.NewServer(config)
		},
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Register the task definitions in a seed file against a fresh simulated account and print their ARNs",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return errors.New("a seed file is required")
			}

			name, _ := cmd.Flags().GetString("account")

			account := common.Account{}
			org := ""
			if cmd.Flags().Changed("config") {
				config, err := loadConfig(cmd)
				if err != nil {
					return err
				}

				a, ok := config.Accounts[name]
				if !ok {
					return fmt.Errorf("account %s not found in configuration", name)
				}
				account, org = a, config.Org
			}

			orchestrator := orchestration.NewOrchestrator(ecs.NewSession(account), org)

			arns, err := orchestrator.SeedFiles(cmd.Context(), file)
			if err != nil {
				return err
			}

			for _, a := range arns {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Seed file (JSON or YAML)")
	cmd.Flags().StringP("account", "a", "default", "Account in the configuration to seed")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ecs-sim version %s%s (%s) %s\n", Version, VersionPrerelease, githash, buildstamp)
		},
	}
}
