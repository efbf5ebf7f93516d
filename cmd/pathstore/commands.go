/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/suparena/pathstore/auth"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/prefs"
	"github.com/suparena/pathstore/storagemodels"
)

func (a *app) storeCommands() []*cobra.Command {
	return []*cobra.Command{
		a.getCmd(),
		a.setCmd(),
		a.updateCmd(),
		a.pushCmd(),
		a.deleteCmd(),
		a.listCmd(),
		a.keyCmd(),
		a.integrationKeyCmd(),
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [path]",
		Short: "Prints the node stored at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(args[0])
			if err != nil {
				return err
			}
			v, found, err := a.db.Get(cmd.Context(), p.String())
			if err != nil {
				return err
			}
			if !found {
				return errors.NewNotFoundError(p.String())
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [path] [json]",
		Short: "Replaces the node at a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, v, err := a.pathAndValue(args)
			if err != nil {
				return err
			}
			if err := a.db.SetValue(cmd.Context(), p.String(), v); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "set successfully")
			return nil
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [path] [json object]",
		Short: "Merges the entries of an object into the node at a path; null entries are removed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, v, err := a.pathAndValue(args)
			if err != nil {
				return err
			}
			updates, ok := v.(map[string]any)
			if !ok {
				return errors.NewValidationError("value", "update needs a JSON object")
			}
			if err := a.db.UpdateValues(cmd.Context(), p.String(), updates); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated successfully")
			return nil
		},
	}
}

func (a *app) pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push [path] [json]",
		Short: "Stores a value under a new child key and prints the key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, v, err := a.pathAndValue(args)
			if err != nil {
				return err
			}
			key, err := a.db.Push(cmd.Context(), p.String(), v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [path]",
		Short: "Removes the node at a path and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(args[0])
			if err != nil {
				return err
			}
			if err := a.db.Delete(cmd.Context(), p.String()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted successfully")
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "Lists the children of a node, one key and JSON value per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(args[0])
			if err != nil {
				return err
			}
			q, err := queryFromFlags(cmd)
			if err != nil {
				return err
			}
			children, err := a.db.Store().Query(cmd.Context(), p, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range children {
				data, err := json.Marshal(c.Value)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", c.Key, data)
			}
			return nil
		},
	}
	cmd.Flags().String("order-by", "", "child field to order by (default: key)")
	cmd.Flags().String("start", "", "inclusive lower bound, as JSON or a bare string")
	cmd.Flags().String("end", "", "inclusive upper bound, as JSON or a bare string")
	cmd.Flags().Int("limit", storagemodels.DefaultLimit, "maximum number of children")
	cmd.Flags().Bool("desc", false, "keep the last entries of the range, newest first")
	return cmd
}

func (a *app) keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key [path]",
		Short: "Generates a new child key for a path without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(args[0])
			if err != nil {
				return err
			}
			key, err := a.db.NewKey(cmd.Context(), p.String())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func (a *app) integrationKeyCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "integration-key",
		Short: "Registers or shows the integration key of a user",
	}
	parent.PersistentFlags().String("uid", "", "identity of the signed-in user")
	parent.PersistentFlags().String("prefs-file", "", "YAML file remembering the key (memory only when empty)")

	keys := func() (*auth.IntegrationKeys, error) {
		var store prefs.Store
		if file := a.v.GetString("prefs-file"); file != "" {
			f, err := prefs.OpenFile(file)
			if err != nil {
				return nil, err
			}
			store = f
		}
		return auth.NewIntegrationKeys(a.db, auth.NewStatic(a.v.GetString("uid")), store, a.logger), nil
	}

	parent.AddCommand(&cobra.Command{
		Use:   "register [uid]",
		Short: "Generates and links a new integration key for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := keys()
			if err != nil {
				return err
			}
			key, err := k.Register(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})
	parent.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Prints the integration key of the user given by --uid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := keys()
			if err != nil {
				return err
			}
			key, err := k.Key(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})
	return parent
}

func (a *app) pathAndValue(args []string) (storagemodels.Path, any, error) {
	p, err := a.path(args[0])
	if err != nil {
		return storagemodels.Path{}, nil, err
	}
	v, err := storagemodels.ParseJSON([]byte(args[1]))
	if err != nil {
		return storagemodels.Path{}, nil, fmt.Errorf("value must be JSON: %w", err)
	}
	return p, v, nil
}

func queryFromFlags(cmd *cobra.Command) (storagemodels.Query, error) {
	flags := cmd.Flags()
	q := storagemodels.NewQuery()

	if field, _ := flags.GetString("order-by"); field != "" {
		q = q.WithOrderByChild(field)
	}
	if flags.Changed("start") {
		raw, _ := flags.GetString("start")
		q = q.WithStartAt(boundValue(raw))
	}
	if flags.Changed("end") {
		raw, _ := flags.GetString("end")
		q = q.WithEndAt(boundValue(raw))
	}
	limit, _ := flags.GetInt("limit")
	q = q.WithLimit(limit)
	if desc, _ := flags.GetBool("desc"); desc {
		q = q.Descending()
	}
	return q, q.Validate()
}

// boundValue reads a bound as JSON when it parses as a scalar and as a bare string otherwise.
func boundValue(raw string) any {
	v, err := storagemodels.ParseJSON([]byte(raw))
	if err != nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return raw
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
