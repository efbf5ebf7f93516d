/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command pathstore reads and writes a path-addressed document tree from the shell.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suparena/pathstore"
	"github.com/suparena/pathstore/keygen"
	"github.com/suparena/pathstore/registry"
	"github.com/suparena/pathstore/storagemodels"
)

// app holds the state of one command invocation.
type app struct {
	v       *viper.Viper
	logger  *slog.Logger
	db      *pathstore.DB
	metrics *metrics.Set
	cancel  context.CancelFunc
	close   func() error
}

func newApp() *app {
	a := &app{v: viper.New(), metrics: metrics.NewSet()}
	loadConfig(a.v)
	return a
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathstore",
		Short: "path-addressed document store",
		Long: fmt.Sprintf(`pathstore (v%s)

Reads, writes and queries a hierarchical document tree addressed by
slash-separated paths. Values are given and printed as JSON.`, pathstore.Version),
		SilenceUsage: true,
	}
	setupFlags(root)

	for _, cmd := range a.storeCommands() {
		cmd.PersistentPreRunE = a.open
		cmd.PersistentPostRunE = a.finish
		root.AddCommand(cmd)
	}

	root.AddCommand(a.versionCmd(), a.namesCmd())
	return root
}

// open binds the flags of cmd and connects to the configured backend.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = logger

	keys, ok := keygen.Named(a.v.GetString("keygen"))
	if !ok {
		return fmt.Errorf("unknown key generator %q", a.v.GetString("keygen"))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.v.GetDuration("timeout"))
	a.cancel = cancel
	cmd.SetContext(ctx)

	backend := a.v.GetString("backend")
	store, closeFn, err := backends.open(ctx, backend, a.v, keys)
	if err != nil {
		return err
	}
	a.close = closeFn
	a.db = pathstore.New(store,
		pathstore.WithLogger(logger),
		pathstore.WithBackendName(backend),
		pathstore.WithMetricsSet(a.metrics),
	)
	logger.Debug("opened backend", "backend", backend)
	return nil
}

func (a *app) finish(cmd *cobra.Command, _ []string) error {
	if a.v.GetBool("metrics") {
		a.metrics.WritePrometheus(cmd.OutOrStdout())
	}
	return nil
}

// release closes the backend opened by the command, if any.
func (a *app) release() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.close == nil {
		return nil
	}
	closeFn := a.close
	a.close = nil
	return closeFn()
}

// path resolves a path argument, expanding "@name" references and {var} macros.
func (a *app) path(raw string) (storagemodels.Path, error) {
	return registry.Expand(raw, a.v.GetStringMapString("var"))
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pathstore",
		Run: func(cmd *cobra.Command, args []string) {
			info := pathstore.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pathstore v%s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}

func (a *app) namesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List the named paths usable as @name",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range registry.Names() {
				tmpl, _ := registry.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\t%s\n", registry.NamePrefix, name, tmpl)
			}
		},
	}
}

func execute(args []string, out, errOut io.Writer) error {
	a := newApp()
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	if cerr := a.release(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
