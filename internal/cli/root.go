// Package cli implements the recipe-scan command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jameslewellyn/recipe-scan-tool/internal/config"
	"github.com/jameslewellyn/recipe-scan-tool/internal/server"
)

// BuildInfo is set by ldflags in the binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app is the state shared by all commands once the root's pre-run has
// loaded configuration.
type app struct {
	cfgFile  string
	logLevel string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	a := &app{log: zerolog.Nop()}
	if info.Version != "" {
		server.Version = info.Version
	}

	root := &cobra.Command{
		Use:   "recipe-scan",
		Short: "Crop scanned recipe notecards",
		Long: "recipe-scan extracts notecard scans from PDFs, removes the white scanner border and grey\n" +
			"card margins, and archives the cards with medium and thumbnail renditions.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file path (TOML)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config and "+config.EnvLogLevel+")")

	root.AddCommand(
		newExtractCmd(a),
		newWhiteBorderCmd(a),
		newGreyBorderCmd(a),
		newProcessCmd(a),
		newDiagnoseCmd(a),
		newServeCmd(a),
		newVersionCmd(info),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(a.logLevel)
	}
	log, err := NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// Execute runs the root command and exits non-zero on failure. SIGINT and
// SIGTERM cancel the command's context; batch commands stop between cards.
func Execute(info BuildInfo) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd(info).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "recipe-scan %s\n", info.Version)
			fmt.Fprintf(w, "  Build time: %s\n", info.BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", info.GitCommit)
		},
	}
}

// inputDir resolves a command's folder argument.
func inputDir(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%q is not a valid directory", arg)
	}
	return abs, nil
}

// siblingDir returns "<dir>_<suffix>" next to dir.
func siblingDir(dir, suffix string) string {
	return filepath.Join(filepath.Dir(dir), filepath.Base(dir)+"_"+suffix)
}
