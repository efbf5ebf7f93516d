/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suparena/pathstore/datastore/bolt"
	"github.com/suparena/pathstore/datastore/ddb"
)

// loadConfig initializes configuration from .env files and PATHSTORE_* environment variables.
func loadConfig(v *viper.Viper) {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v.SetEnvPrefix("pathstore")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// setupFlags adds the connection and output flags shared by every command.
func setupFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("backend", "mem", "tree backend to use (mem, bolt, ddb)")
	flags.String("bolt-file", "pathstore.db", "database file of the bolt backend")
	flags.String("bolt-bucket", "", "bucket of the bolt backend")
	flags.String("ddb-table", "", "DynamoDB table of the ddb backend")
	flags.String("ddb-region", "", "AWS region of the ddb backend")
	flags.String("ddb-access-key", "", "AWS access key (default credential chain when empty)")
	flags.String("ddb-secret-key", "", "AWS secret key")
	flags.String("ddb-endpoint", "", "endpoint override, e.g. for DynamoDB Local")
	flags.String("keygen", "push", "child key generator (push, uuid)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("metrics", false, "print store metrics in Prometheus text format after the command")
	flags.StringToString("var", nil, "path template variables, e.g. --var uid=u1")
	flags.Duration("timeout", 30*time.Second, "timeout of the command")
}

func boltConfig(v *viper.Viper) bolt.Config {
	cfg := bolt.DefaultConfig(v.GetString("bolt-file"))
	if bucket := v.GetString("bolt-bucket"); bucket != "" {
		cfg.Bucket = bucket
	}
	return cfg
}

func ddbConfig(v *viper.Viper) ddb.Config {
	cfg := ddb.DefaultConfig(v.GetString("ddb-table"))
	cfg.Region = v.GetString("ddb-region")
	cfg.AccessKey = v.GetString("ddb-access-key")
	cfg.SecretKey = v.GetString("ddb-secret-key")
	cfg.Endpoint = v.GetString("ddb-endpoint")
	return cfg
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
