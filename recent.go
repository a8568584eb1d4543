package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRecentCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the latest recorded guesses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := loadApp(ctx, *configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.recorder == nil {
				return errors.New("no recorder configured (set record.backend to supabase or sqlite)")
			}
			records, err := a.recorder.Recent(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "no games recorded yet")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(out, "%s  %-20s %2d questions  (%s)\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Guess, r.Questions, r.Region)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of games to show")
	return cmd
}
