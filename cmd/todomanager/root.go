package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nhle/todo-manager/internal/app"
	"github.com/nhle/todo-manager/internal/logging"
	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
	"github.com/nhle/todo-manager/internal/theme"
	"github.com/nhle/todo-manager/internal/watch"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfgPath string
	dbPath  string
	cfg     *model.AppConfig
	now     func() time.Time

	// setupLogging routes logrus output according to the loaded config.
	setupLogging func(model.LogConfig) (io.Closer, error)
	logCloser    io.Closer

	// isTerminal decides between the TUI and plain output.
	isTerminal func() bool
	// darkDefault picks the theme until the user stores a preference.
	darkDefault func() bool
}

func newCLI() *cli {
	return &cli{
		now:          time.Now,
		setupLogging: logging.Setup,
		darkDefault:  theme.DetectDark,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todomanager",
		Short: "A personal task tracker",
		Long: `todomanager keeps a local list of tasks with a category, a priority
and an optional due date.

Run without arguments in a terminal to open the interactive view. When
output is not a terminal the task list is printed instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.preRun,
		PersistentPostRun: c.postRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.isTerminal() {
				return c.printList(cmd.OutOrStdout(), listOptions{filter: c.cfg.Display.DefaultFilter})
			}
			return c.runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (default ~/.config/todomanager/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "task database path (overrides config)")

	rootCmd.AddCommand(
		newAddCmd(c),
		newListCmd(c),
		newEditCmd(c),
		newDoneCmd(c),
		newRmCmd(c),
		newPrefsCmd(c),
	)
	return rootCmd
}

func (c *cli) preRun(cmd *cobra.Command, args []string) error {
	path := c.cfgPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.Storage.DBPath = c.dbPath
	}
	c.cfg = cfg

	if c.setupLogging != nil {
		closer, err := c.setupLogging(cfg.Log)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		c.logCloser = closer
	}

	log.WithFields(log.Fields{
		"command": cmd.Name(),
		"db":      cfg.Storage.DBPath,
	}).Debug("starting")
	return nil
}

func (c *cli) postRun(cmd *cobra.Command, args []string) {
	if c.logCloser != nil {
		c.logCloser.Close()
		c.logCloser = nil
	}
}

func (c *cli) openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(c.cfg.Storage.DBPath, store.WithClock(c.now))
	if err != nil {
		return nil, fmt.Errorf("opening task store: %w: %w", store.ErrPersistence, err)
	}
	return s, nil
}

func (c *cli) runTUI() error {
	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := watch.New(c.cfg.Storage.DBPath, watch.DefaultDebounce)
	if err == nil {
		if err = w.Start(); err != nil {
			w.Stop()
		}
	}
	if err != nil {
		log.WithError(err).Warn("database watcher unavailable")
		w = nil
	}

	m := app.New(s, app.Options{
		DateFormat:    c.cfg.Display.DateFormat,
		DefaultFilter: c.cfg.Display.DefaultFilter,
		Watcher:       w,
		Now:           c.now,
		DarkDefault:   c.darkDefault,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	if w != nil {
		w.Stop()
	}
	return nil
}
