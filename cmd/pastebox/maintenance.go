package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove records whose file is missing from the storage folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.reconciler.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d records\n", n)
			return nil
		},
	}
}

func newOrphansCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "Remove files in the storage folder that no record references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.reconciler.SweepOrphanFiles(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			verb := "removed"
			if report.DryRun {
				verb = "would remove"
			}
			for _, f := range report.Files {
				fmt.Fprintf(out, "%s %s\n", verb, f)
			}
			for _, e := range report.Errors {
				fmt.Fprintf(out, "error %s: %s\n", e.Item, e.Message)
			}
			fmt.Fprintf(out, "%d orphan files\n", len(report.Files))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list orphan files without removing them")
	return cmd
}

func newSetRootCmd() *cobra.Command {
	var noMigrate bool
	cmd := &cobra.Command{
		Use:   "set-root <path>",
		Short: "Change the storage folder, moving existing files unless --no-migrate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.services.Roots.ChangeRoot(cmd.Context(), args[0], noMigrate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Message, res.Path)
			if m := res.Migration; m != nil {
				fmt.Fprintf(out, "moved %d files, %d errors\n", m.MovedCount, m.ErrorCount)
				for _, e := range m.Errors {
					fmt.Fprintf(out, "  %s: %s\n", e.Item, e.Message)
				}
			}
			fmt.Fprintf(out, "removed %d records with missing files\n", res.CleanupCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "adopt the folder as-is and mark setup complete")
	return cmd
}
