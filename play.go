package main

import (
	"io"

	"github.com/spf13/cobra"

	"GO-icg/internal/ui"
)

func newPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			// The UI owns the terminal, so logs only go somewhere when log.file is set.
			a, err := loadApp(ctx, *configPath, io.Discard)
			if err != nil {
				return err
			}
			defer a.Close()

			return ui.Run(ctx, a.machine, a.cfg.Game.Region)
		},
	}
}
