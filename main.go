package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"GO-icg/internal/config"
	"GO-icg/internal/game"
	"GO-icg/internal/llm"
	"GO-icg/internal/record"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "icg",
		Short:         "ICG - guess which state you are from",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/icg/config.yaml)")

	play := newPlayCmd(&configPath)
	root.RunE = play.RunE
	root.AddCommand(play)
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newRecentCmd(&configPath))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

// app is everything a command needs, built from config.
type app struct {
	cfg      *config.Config
	log      logr.Logger
	machine  *game.Machine
	recorder *record.Recorder
	closers  []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Error(err, "close failed")
		}
	}
}

// loadApp wires config, logging, the model backend and the recorder. Log
// output goes to logOut unless log.file is set.
func loadApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		logOut = f
	}
	stdr.SetVerbosity(cfg.Log.Verbosity)
	a.log = stdr.New(log.New(logOut, "", log.LstdFlags)).WithName("icg")

	gen, err := a.generator(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openRecorder(); err != nil {
		a.Close()
		return nil, err
	}

	adapter := game.NewAdapter(gen, cfg.Game.Region,
		game.WithTimeout(cfg.Model.Timeout),
		game.WithRetries(cfg.Model.Retries),
		game.WithLogger(a.log.WithName("model")),
	)
	opts := []game.MachineOption{game.WithMachineLogger(a.log.WithName("game"))}
	if a.recorder != nil {
		opts = append(opts, game.WithRecorder(a.recorder))
	}
	a.machine = game.NewMachine(adapter, opts...)
	return a, nil
}

func (a *app) generator(ctx context.Context) (llm.Generator, error) {
	m := a.cfg.Model
	switch m.Provider {
	case config.ProviderHuggingFace:
		a.log.V(1).Info("using hugging face", "endpoint", a.cfg.HuggingFace.Endpoint)
		return llm.NewHuggingFace(a.cfg.HuggingFace.Token, m.Name, a.cfg.HuggingFace.Endpoint, m.Temperature), nil
	default:
		g, err := llm.NewGemini(ctx, a.cfg.Gemini.APIKey, m.Name, m.Temperature)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g.Close)
		return g, nil
	}
}

func (a *app) openRecorder() error {
	var store record.Store
	switch a.cfg.Record.Backend {
	case config.RecordSupabase:
		s, err := record.NewSupabaseStore(a.cfg.Supabase.URL, a.cfg.Supabase.Key)
		if err != nil {
			return err
		}
		a.log.Info("connected to Supabase")
		store = s
	case config.RecordSQLite:
		s, err := record.NewSQLiteStore(a.cfg.Record.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, s.Close)
		store = s
	default:
		return nil
	}
	a.recorder = record.NewRecorder(store, a.cfg.Game.Region)
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
