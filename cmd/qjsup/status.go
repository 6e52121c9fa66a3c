package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/transaction"
)

// newStatusCmd reports the installed binary and the last install attempt
// without checking for updates.
func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the installed interpreter and the last install attempt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.cfg.InstallDir()
			if err != nil {
				return err
			}
			path, err := a.cfg.InstallPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(a.stdout, "Binary: %s\n", path)
			} else {
				fmt.Fprintf(a.stdout, "Binary: %s (missing)\n", path)
			}

			txn, err := transaction.Load(dir)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintln(a.stdout, "No install recorded.")
					return nil
				}
				return err
			}

			from := txn.FromVersion
			if from == "" {
				from = "none"
			}
			fmt.Fprintf(a.stdout, "Last install: %s -> %s (%s)\n", from, txn.ToVersion, txn.Target)
			fmt.Fprintf(a.stdout, "Started: %s\n", txn.Timestamp.Local().Format(time.RFC3339))
			fmt.Fprintf(a.stdout, "ID: %s\n", txn.ID)
			fmt.Fprintf(a.stdout, "State: %s\n", txn.State())
			for _, step := range txn.Steps {
				if step.LastError != "" {
					fmt.Fprintf(a.stdout, "  %-9s %s: %s\n", step.Step, step.State, step.LastError)
					continue
				}
				fmt.Fprintf(a.stdout, "  %-9s %s\n", step.Step, step.State)
			}
			return nil
		},
	}
}
