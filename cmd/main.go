package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goserg/opponentanalyzer/internal/config"
	"github.com/goserg/opponentanalyzer/internal/detector"
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/report"
	"github.com/goserg/opponentanalyzer/internal/service"
	"github.com/goserg/opponentanalyzer/internal/tgbot"
	"github.com/goserg/opponentanalyzer/internal/watch"
	"github.com/goserg/opponentanalyzer/internal/web"
)

var (
	configPath   string
	historyLimit int
	watchHeaded  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "opponentanalyzer",
		Short:        "Think time and precision of chess opponents",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "path to the TOML config")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, if enabled, the telegram bot",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}

	statsCmd := &cobra.Command{
		Use:   "stats <username>",
		Short: "Analyze one player and print the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsCmd,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [url]",
		Short: "Follow a live game page and report every new opponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatchCmd,
	}
	watchCmd.Flags().BoolVar(&watchHeaded, "headed", false, "show the browser window")

	historyCmd := &cobra.Command{
		Use:   "history <username>",
		Short: "List stored reports of a player",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryCmd,
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries")

	rootCmd.AddCommand(serveCmd, statsCmd, watchCmd, historyCmd)
	return rootCmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	session, err := a.analyzer.Session(ctx, a.detectorOptions()...)
	if err != nil {
		return err
	}
	defer session.Close()

	if a.cfg.TgBot.Enabled {
		bot, err := tgbot.New(a.cfg.TgBot, a.cfg.Server.Debug, a.analyzer, session, a.log)
		if err != nil {
			return err
		}
		a.analyzer.AddSink(bot)
		go bot.Run()
		defer bot.Stop()
	}

	server := web.New(a.analyzer, session, a.bus, a.metrics, a.cfg.Server, a.log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		a.log.Info("shutting down")
		return server.Shutdown()
	}
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	r, err := a.analyzer.Analyze(ctx, domain.Subject(args[0]))
	fmt.Fprintln(cmd.OutOrStdout(), report.Table(r, time.Now()))
	return err
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.cfg.Watch
	if len(args) == 1 {
		cfg.URL = args[0]
	}
	if watchHeaded {
		cfg.Headless = false
	}

	ctx, stop := signalContext()
	defer stop()

	out := cmd.OutOrStdout()
	a.analyzer.AddSink(service.SinkFunc(func(r domain.Report) {
		fmt.Fprintln(out, report.Table(r, time.Now()))
	}))
	session, err := a.analyzer.Session(ctx, a.detectorOptions()...)
	if err != nil {
		return err
	}
	defer session.Close()

	observations := make(chan detector.Observation)
	go session.Run(observations)
	err = watch.New(cfg, a.log).Run(ctx, observations)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.analyzer.History(cmd.Context(), domain.Subject(args[0]), historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.History(entries))
	return nil
}
