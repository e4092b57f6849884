package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fkoehler/svnpush/internal/config"
	"github.com/fkoehler/svnpush/internal/gitrepo"
	"github.com/fkoehler/svnpush/internal/push"
	"github.com/fkoehler/svnpush/internal/svnwc"
	"github.com/fkoehler/svnpush/internal/vcs"
)

var (
	// Set by goreleaser
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		cfgFile   string
		logLevel  string
		logFormat string
		verbose   bool
		dryRun    bool
		force     bool
		limit     int
	)

	rootCmd := &cobra.Command{
		Use:   "svnpush",
		Short: "Replay git changesets into a split Subversion tree",
		Long: `svnpush ports the linear sequence of git commits between an upstream ref
and HEAD into a Subversion repository organized as independent subproject
subtrees. A commit touching several subprojects lands as a single svn commit.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/svnpush/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every VCS invocation with its duration")

	newEngine := func(logger *slog.Logger) (*push.Engine, error) {
		cfg, err := loadConfig(logger, cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		runner := vcs.NewShellRunner(logger, verbose)
		gitClient := gitrepo.NewShellClient(runner, cfg.Git.Dir)
		svnClient := svnwc.NewShellClient(runner)
		return push.NewEngine(cfg, gitClient, svnClient, logger, push.Options{
			DryRun:  dryRun,
			Limit:   limit,
			Confirm: terminalConfirm(stdin, stderr, force),
		}), nil
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Replay pending changesets into the svn working copy",
		Long: `Push sanitizes the svn working copy, then replays every git commit in
upstream..HEAD in order: the commit is split into one diff per subproject,
each diff is applied to the corresponding subtree, adds and removes are
registered with svn, and one svn commit is issued carrying the original
commit message. Processing halts at the first failure, leaving the working
copy as-is for inspection.

With --dry-run the first changeset is applied but not committed; the applied
changes stay in the working copy, so any further changesets in the same run
fail the cleanliness precondition by construction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupSignalHandler()
			defer cancel()

			logger := setupLogger(stderr, logLevel, logFormat)
			engine, err := newEngine(logger)
			if err != nil {
				return err
			}

			results, err := engine.Push(ctx)
			reportResults(stdout, results)
			return err
		},
	}
	pushCmd.Flags().BoolVar(&dryRun, "dry-run", false, "apply changesets without committing")
	pushCmd.Flags().BoolVar(&force, "force", false, "delete untracked files during sanitize without asking")
	pushCmd.Flags().IntVar(&limit, "limit", 0, "replay at most this many changesets (0 = all)")

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Bring the svn working copy to a known-clean state",
		Long: `Clean reverts local modifications in the svn working copy, deletes
untracked files after confirmation, and updates to the latest revision.
Push runs the same sanitize step before replaying changesets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupSignalHandler()
			defer cancel()

			logger := setupLogger(stderr, logLevel, logFormat)
			engine, err := newEngine(logger)
			if err != nil {
				return err
			}
			return engine.Clean(ctx)
		},
	}
	cleanCmd.Flags().BoolVar(&force, "force", false, "delete untracked files without asking")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "svnpush %s\n", version)
			fmt.Fprintf(stdout, "  commit: %s\n", commit)
			fmt.Fprintf(stdout, "  built:  %s\n", date)
		},
	}

	rootCmd.AddCommand(pushCmd, cleanCmd, versionCmd)
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// reportResults prints the per-changeset outcome stream.
func reportResults(out io.Writer, results []push.Result) {
	for _, r := range results {
		switch r.Outcome {
		case push.OutcomeCommitted:
			fmt.Fprintf(out, "committed %s as r%d\n", r.Rev, r.Revision)
		case push.OutcomeDryRunSkipped:
			fmt.Fprintf(out, "dry-run %s (not committed)\n", r.Rev)
		case push.OutcomeFailed:
			fmt.Fprintf(out, "failed %s: %v\n", r.Rev, r.Err)
		}
	}
}

// terminalConfirm builds the sanitize confirmation gate. The exact list of
// paths to be deleted is shown before asking.
func terminalConfirm(stdin io.Reader, out io.Writer, force bool) push.ConfirmFunc {
	reader := bufio.NewReader(stdin)
	return func(paths []string) (bool, error) {
		fmt.Fprintf(out, "the following untracked paths will be deleted:\n")
		for _, p := range paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
		if force {
			fmt.Fprintf(out, "deleting without confirmation (--force)\n")
			return true, nil
		}
		fmt.Fprintf(out, "delete these paths? [y/N] ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

func setupLogger(out io.Writer, logLevel, logFormat string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func loadConfig(logger *slog.Logger, cfgFile string) (*config.Config, error) {
	configPath := cfgFile
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath = fmt.Sprintf("%s/.config/svnpush/config.yaml", home)
	}

	logger.Info("loading configuration", "path", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"git_dir", cfg.Git.Dir,
		"upstream", cfg.Git.Upstream,
		"workdir", cfg.SVN.Workdir,
		"subprojects", len(cfg.Subprojects))

	return cfg, nil
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
