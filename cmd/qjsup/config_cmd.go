package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the qjsup config file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", a.cfgPath)
			}

			content, err := config.NewGenerator().Generate(a.cfg)
			if err != nil {
				return fmt.Errorf("generate config: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(a.cfgPath), 0755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(a.cfgPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Fprintf(a.stdout, "Wrote %s\n", a.cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as Lua",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.NewGenerator().Generate(a.cfg)
			if err != nil {
				return fmt.Errorf("generate config: %w", err)
			}
			fmt.Fprint(a.stdout, content)
			return nil
		},
	}
}
