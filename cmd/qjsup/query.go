package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the interpreter path, installing or updating it first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			path, ok, err := s.Path(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errNotInstalled
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version, installing or updating it first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			v, ok, err := s.Version(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errNotInstalled
			}
			fmt.Fprintln(a.stdout, v)
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Install or update the interpreter if needed and print the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			state, err := s.Check(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, state)
			return nil
		},
	}
}

func newTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target",
		Short: "Print the release name prefix for this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			target, err := s.Target(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, target)
			return nil
		},
	}
}
