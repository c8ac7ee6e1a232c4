package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	VERSION = "0.2.0"
	appName = "atlasbuilder"
)

// usageError 是参数错误，进程以状态码2退出
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

type fileError struct {
	name string
	err  error
}

func (e *fileError) Error() string {
	return fmt.Sprintf("%q: %v", e.name, e.err)
}

func (e *fileError) Unwrap() error {
	return e.err
}

// newRootCommand 创建构建图集的命令，unpack 是它的子命令
func newRootCommand() *cobra.Command {
	opts := defaultOptions()
	var (
		configPath     string
		verbose, quiet bool
	)
	cmd := &cobra.Command{
		Use:           appName + " [flags] <inputs...>",
		Short:         "Builds texture atlas images with JSON output",
		Version:       VERSION,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose && quiet {
				return &usageError{errors.New("--verbose and --quiet are mutually exclusive")}
			}
			setupLogging(verbose, quiet)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := opts.loadConfigFile(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			if len(args) > 0 {
				opts.Inputs = args
			}
			if len(opts.Inputs) == 0 {
				return &usageError{errors.New("the following required arguments were not provided: <inputs...>")}
			}
			if err := opts.validate(); err != nil {
				return &usageError{err}
			}
			return build(&opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug information")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML job file; flags given on the command line take precedence")
	opts.bindFlags(cmd.Flags())

	cmd.AddCommand(newUnpackCommand())
	return cmd
}

func setupLogging(verbose, quiet bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case quiet:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// exitCode 返回错误对应的进程退出码
func exitCode(err error) int {
	var uerr *usageError
	if errors.As(err, &uerr) {
		return 2
	}
	return 1
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(exitCode(err))
	}
}
