package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/tasks/store"
	"github.com/tailored-agentic-units/tasks/task"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			c.store.FindAll(printTo(cmd.OutOrStdout(), &err))
			return err
		},
	}
}

func (c *cli) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find key=value...",
		Short: "Print tasks whose fields equal every given value",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args)
			if err != nil {
				return err
			}
			var printErr error
			c.store.Find(task.Query(fields), printTo(cmd.OutOrStdout(), &printErr))
			return printErr
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add key=value...",
		Short: "Insert a task and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFields(args)
			if err != nil {
				return err
			}
			var printErr error
			if err := c.store.Save(cmd.Context(), fields, printTo(cmd.OutOrStdout(), &printErr), 0); err != nil {
				return err
			}
			return printErr
		},
	}
}

func (c *cli) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> key=value...",
		Short: "Merge fields into a task and print the whole list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if id == 0 {
				return fmt.Errorf("invalid task id %q: zero inserts instead of updating", args[0])
			}
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			var printErr error
			if err := c.store.Save(cmd.Context(), fields, printTo(cmd.OutOrStdout(), &printErr), id); err != nil {
				return err
			}
			return printErr
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a task and print the remaining list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var printErr error
			if err := c.store.Remove(cmd.Context(), id, printTo(cmd.OutOrStdout(), &printErr)); err != nil {
				return err
			}
			return printErr
		},
	}
}

func (c *cli) dropCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drop := c.store.Drop
			if purge {
				drop = c.store.Purge
			}
			var printErr error
			if err := drop(cmd.Context(), printTo(cmd.OutOrStdout(), &printErr)); err != nil {
				return err
			}
			return printErr
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Delete the storage slot instead of emptying it")
	return cmd
}

func (c *cli) collectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "Print the name of every collection in the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.store.Collections(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), names)
		},
	}
}

// printTo returns a callback that writes the task list to w as a JSON array.
// Write errors land in errp.
func printTo(w io.Writer, errp *error) store.Callback {
	return func(tasks []task.Task) {
		*errp = writeJSON(w, tasks)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseFields turns key=value arguments into task fields. Values that are
// valid JSON keep their decoded type; anything else is taken as a string.
func parseFields(args []string) (task.Fields, error) {
	fields := make(task.Fields, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", arg)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		fields[key] = v
	}
	return fields, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
