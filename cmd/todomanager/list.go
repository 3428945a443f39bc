package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/query"
	"github.com/nhle/todo-manager/internal/store"
)

type listOptions struct {
	filter string
	search string
	json   bool
}

// taskView is the JSON shape printed by list --json.
type taskView struct {
	model.Task
	Status string `json:"status"`
}

func newListCmd(c *cli) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks ordered by due date",
		Long: `List tasks ordered by due date. Tasks without a due date come last.

Examples:
  todomanager list
  todomanager list --priority high
  todomanager list --search milk --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("priority") {
				opts.filter = c.cfg.Display.DefaultFilter
			}
			return c.printList(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "priority", "p", query.FilterAll, "priority filter: all, low, medium or high")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "only tasks whose title contains this text")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	return cmd
}

func (c *cli) printList(w io.Writer, opts listOptions) error {
	priority, err := query.ParsePriorityFilter(opts.filter)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrValidation, err)
	}

	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.List(context.Background())
	if err != nil {
		return err
	}
	tasks := query.Apply(all, query.Filter{Priority: priority, Search: opts.search})
	now := c.now()

	if opts.json {
		views := make([]taskView, len(tasks))
		for i, t := range tasks {
			views[i] = taskView{Task: t, Status: model.ResolveStatus(t, now).String()}
		}
		out, err := sonic.ConfigStd.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding tasks: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintln(w, c.formatRow(t, now))
	}
	return nil
}

// formatRow renders one task as a fixed-width line.
func (c *cli) formatRow(t model.Task, now time.Time) string {
	return fmt.Sprintf("%-8s  %-7s  %-6s  %-8s  %-17s  %s",
		shortID(t.ID),
		statusLabel(model.ResolveStatus(t, now)),
		t.Priority,
		t.Category,
		formatDue(t, c.cfg.Display.DateFormat),
		t.Title,
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDue(t model.Task, layout string) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.Local().Format(layout)
}

func statusLabel(s model.Status) string {
	return strings.ToUpper(s.String())
}
