// workmain is a personal work-management CLI: capture tagged notes, log
// time, track meetings, and render JSON-templated reports.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lockdwn20/workmain/internal/config"
	"github.com/lockdwn20/workmain/internal/service"
)

var version = "0.1.0"

var (
	cfgPath string
	verbose bool

	logger *zap.Logger
	svc    *service.Service
)

var rootCmd = &cobra.Command{
	Use:     "workmain",
	Short:   "Personal work tracking and report rendering",
	Version: version,
	Long: `workmain captures tagged notes, time entries and meetings, and renders
them into reports defined by JSON templates.

Tags are typed inline as hashtags (#ilo, #cr, ...) and stored under their
canonical full names. Run 'workmain tags' for the configured vocabulary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		svc, err = service.New(cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svc != nil {
			_ = svc.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.workmain/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(meetingsCmd)
	rootCmd.AddCommand(tagsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
