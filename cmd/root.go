// Package cmd is the domman command line: it loads a page, runs scripts
// against it through the $d API and prints the resulting document.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the command tree with its own viper instance, so tests
// can run commands in isolation.
func newRootCmd() (*cobra.Command, *viper.Viper) {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "domman",
		Short:         "Run domman scripts against an HTML document",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(v, cfgFile)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./domman.yaml)")
	flags.Bool("debug", false, "log diagnostics for ignored input and unknown members")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("origin", "null", "localStorage origin when the page has no URL")
	flags.String("user-agent", "domman/1.0", "User-Agent sent with ajax requests")
	flags.Duration("http-timeout", defaultHTTPTimeout, "timeout for each ajax request")
	flags.Int("max-redirects", 10, "redirects an HTTP request may follow; 0 disables following")
	flags.Int("http-cache", 100, "fresh GET responses kept in memory; 0 disables the cache")
	for _, name := range []string{"debug", "log-level", "origin", "user-agent", "http-timeout", "max-redirects", "http-cache"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newRunCmd(v), newVersionCmd())
	return root, v
}

// initializeConfig reads the config file and DOMMAN_ environment
// variables. A missing default config file is not an error.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("domman")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOMMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "read config file")
		}
	}
	return nil
}

func newLogger(v *viper.Viper) (*logrus.Logger, error) {
	log := logrus.New()
	log.Out = os.Stderr
	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, errors.Wrap(err, "log-level")
	}
	log.SetLevel(level)
	if v.GetBool("debug") && level < logrus.WarnLevel {
		log.SetLevel(logrus.WarnLevel)
	}
	return log, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root, _ := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "domman:", err)
		os.Exit(1)
	}
}
