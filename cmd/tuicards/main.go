// Package main provides the CLI entrypoint for tuicards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuicards/internal/app"
	"github.com/verte-zerg/tuicards/internal/config"
	"github.com/verte-zerg/tuicards/internal/logging"
	"github.com/verte-zerg/tuicards/internal/recommend"
	"github.com/verte-zerg/tuicards/internal/reminder"
	"github.com/verte-zerg/tuicards/internal/stats"
	"github.com/verte-zerg/tuicards/internal/statsui"
	"github.com/verte-zerg/tuicards/internal/store"
	"github.com/verte-zerg/tuicards/internal/tui"
)

const (
	defaultLogLevel  = "warn"
	defaultStatsDays = statsui.DefaultDays
)

var (
	dbPath   string
	logLevel string
	logFile  string

	studyReminder         bool
	studyReminderInterval time.Duration
	studyPollInterval     time.Duration

	statsDays  int
	statsPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicards",
		Short:         "TUI flashcard trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runStudyCmd,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	addStudyFlags(rootCmd)

	rootCmd.AddCommand(newStudyCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newTopicCmd())
	rootCmd.AddCommand(newCardCmd())
	rootCmd.AddCommand(newBulkCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStorageCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addStudyFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&studyReminder, "reminder", true, "show a study reminder while idle")
	cmd.Flags().DurationVar(&studyReminderInterval, "reminder-interval", reminder.DefaultInterval, "time between reminders")
	cmd.Flags().DurationVar(&studyPollInterval, "poll-interval", reminder.DefaultPollInterval, "how often to check the reminder")
}

func newStudyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study [topic]",
		Short: "Review a topic",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStudyCmd,
	}
	addStudyFlags(cmd)
	return cmd
}

func runStudyCmd(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	topic := ""
	if env.file.Study.Topic != nil {
		topic = *env.file.Study.Topic
	}
	if len(args) == 1 {
		topic = args[0]
	}
	if topic != "" && !env.app.Topics().Has(topic) {
		return fmt.Errorf("topic %q not found", topic)
	}
	applyBoolConfig(cmd, "reminder", &studyReminder, env.file.Study.Reminder)
	if err := applyDurationConfig(cmd, "reminder-interval", &studyReminderInterval, env.file.Study.ReminderInterval); err != nil {
		return err
	}
	if err := applyDurationConfig(cmd, "poll-interval", &studyPollInterval, env.file.Study.PollInterval); err != nil {
		return err
	}
	if studyReminderInterval <= 0 || studyPollInterval <= 0 {
		return fmt.Errorf("--reminder-interval and --poll-interval must be > 0")
	}

	model := tui.NewModel(env.app, tui.Options{
		Topic:        topic,
		Reminder:     studyReminder,
		Interval:     studyReminderInterval,
		PollInterval: studyPollInterval,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsDays, "days", defaultStatsDays, "days shown in the activity chart")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats as text instead of opening the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if statsPlain {
		out := cmd.OutOrStdout()
		report := env.app.Report(statsDays)
		if err := stats.RenderSummary(out, report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderDaily(out, report.Daily, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	model := statsui.NewModel(env.app, statsDays)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newRecommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Rank topics by how much they need study",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			if err := recommend.Render(cmd.OutOrStdout(), env.app.Recommend()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Show database location and stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.close()
			entries, err := env.store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "Database: %s\n\n", dbPath); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Key, fmt.Sprintf("%d", e.Size), e.UpdatedAt.Local().Format("2006-01-02 15:04:05")})
			}
			for _, line := range stats.FormatTable([]string{"Key", "Bytes", "Updated"}, rows, map[int]bool{1: true}) {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// env bundles what every data command needs.
type env struct {
	file     config.FileConfig
	store    *store.Store
	app      *app.App
	closeLog func() error
}

func openEnv(cmd *cobra.Command) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DBPath)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	logger, closeLog, err := logging.Setup(logging.Options{Level: logLevel, File: logFile}, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		closeQuietly(closeLog)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a := app.New(st, app.WithLogger(logger))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Load(ctx); err != nil {
		closeQuietly(st.Close)
		closeQuietly(closeLog)
		return nil, err
	}
	return &env{file: fileCfg, store: st, app: a, closeLog: closeLog}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	closeQuietly(e.closeLog)
}

func closeQuietly(fn func() error) {
	if err := fn(); err != nil {
		// Best-effort close.
		_ = err
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := config.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuicards configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# topic = "Math"             # Topic to open when studying without an argument
# reminder = true            # Show a study reminder while idle
# reminder-interval = %q   # Time between reminders
# poll-interval = %q        # How often the reminder is checked

[storage]
# db-path = %q

[log]
# level = %q               # debug, info, warn, error
# file = %q
`,
		reminder.DefaultInterval.String(),
		reminder.DefaultPollInterval.String(),
		config.DefaultDBPath(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
