// Package cmd implements the deadlines command line.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/config"
	"github.com/zjrosen/deadlines/internal/infrastructure/sqlite"
	"github.com/zjrosen/deadlines/internal/log"
	apptasks "github.com/zjrosen/deadlines/internal/tasks/application"
	"github.com/zjrosen/deadlines/internal/ui/styles"
)

const envPrefix = "DEADLINES"

// annotationConfigOptional marks commands that run without the file named by
// --config, such as init, which creates it.
const annotationConfigOptional = "config-optional"

var (
	cfgFile string
	cfg     config.Config

	// clock is replaced in tests.
	clock calendar.Clock = calendar.SystemClock{}

	logCleanup func() error
)

var rootCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "Track task deadlines by day and week",
	Long: `deadlines keeps a list of tasks with deadlines and optional start times
in a local SQLite database and answers "what is due today, tomorrow,
this week?".

Weeks run Monday 00:00 to Sunday 23:59:59 in your local time zone.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_, optional := cmd.Annotations[annotationConfigOptional]
		return initConfig(cmd.Root().PersistentFlags(), optional)
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeLog()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeLog(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/deadlines/config.yaml)")
	flags.String("db", "", "task database (default: ~/.deadlines/deadlines.db)")
	flags.Bool("debug", false, "record debug messages in the log file")
}

func initConfig(flags *pflag.FlagSet, configOptional bool) error {
	if err := closeLog(); err != nil {
		return err
	}
	loaded, used, err := loadConfig(viper.New(), flags, cfgFile, configOptional)
	if err != nil {
		return err
	}
	cfg = loaded

	cleanup, err := log.Init(log.Options{
		File:       cfg.Log.File,
		Debug:      cfg.Log.Debug,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("initializing log: %w", err)
	}
	logCleanup = cleanup

	styles.SetColorEnabled(cfg.Display.Color)
	log.Debug(log.CatConfig, "Loaded config", "file", used, "db", cfg.DBPath)
	return nil
}

func closeLog() error {
	if logCleanup == nil {
		return nil
	}
	cleanup := logCleanup
	logCleanup = nil
	return cleanup()
}

// loadConfig layers defaults, the config file, DEADLINES_* environment
// variables and command-line flags, in increasing precedence. A missing
// config file is only an error when path was given explicitly and optional
// is false. It returns the config file actually read, or "".
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, path string, optional bool) (config.Config, string, error) {
	defaults := config.Defaults()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.debug", defaults.Log.Debug)
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	v.SetDefault("log.max_age_days", defaults.Log.MaxAgeDays)
	v.SetDefault("display.date_format", defaults.Display.DateFormat)
	v.SetDefault("display.show_tags", defaults.Display.ShowTags)
	v.SetDefault("display.max_name_width", defaults.Display.MaxNameWidth)
	v.SetDefault("display.color", defaults.Display.Color)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{"db_path": "db", "log.debug": "debug"} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return config.Config{}, "", fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath()
	}
	v.SetConfigFile(config.ExpandHome(path))

	used := v.ConfigFileUsed()
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || (explicit && !optional) {
			return config.Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
		}
		used = ""
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, "", fmt.Errorf("parsing config: %w", err)
	}
	c.DBPath = config.ExpandHome(c.DBPath)
	c.Log.File = config.ExpandHome(c.Log.File)

	if err := c.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return c, used, nil
}

// openService opens the task database and returns a service over it. The
// returned close function must be called when the command is done.
func openService() (*apptasks.Service, func(), error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "Failed to close database", err)
		}
	}
	return apptasks.NewService(db.TaskRepository(), clock), closeDB, nil
}
