package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// app carries what the commands share: the viper instance, the loaded
// settings and the log file to close on exit.
type app struct {
	v         *viper.Viper
	settings  config.Settings
	logSetup  func(debug bool) io.Closer
	logCloser io.Closer
}

func newApp() *app {
	return &app{v: viper.New(), logSetup: setupLogging}
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close() // Best effort close
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		cfgFile string
		debug   bool
	)

	root := &cobra.Command{
		Use:          config.CmdRoot,
		Short:        config.CmdShortRoot,
		Long:         config.CmdLongRoot,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logCloser = a.logSetup(debug)
			logStartupInfo()
			return a.initConfig(cfgFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, config.FlagConfig, "", config.FlagDescConfig)
	pf.BoolVar(&debug, config.FlagDebug, false, config.FlagDescDebug)
	pf.String(config.FlagLanguage, "", config.FlagDescLanguage)
	_ = a.v.BindPFlag(config.SettingLanguage, pf.Lookup(config.FlagLanguage))

	root.AddCommand(
		newTimelineCmd(a),
		newICSCmd(a),
		newServeCmd(a),
		newKeyCmd(),
		newVersionCmd(),
	)
	return root
}

// initConfig reads the optional config file and the COSMIC_* environment.
// A missing default config file is not an error.
func (a *app) initConfig(cfgFile string) error {
	v := a.v
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(config.ConfigFileName)
		v.SetConfigType(config.ConfigFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%s: %w", config.ErrConfigRead, err)
		}
	}

	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	a.settings = settings

	slog.Debug(config.MsgConfigLoaded,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, v.ConfigFileUsed(),
		config.LogKeyLang, settings.Language,
	)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
