package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/dateparse"
	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
)

func newAddCmd(c *cli) *cobra.Command {
	var category, priority, due string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Long: `Add a task. The title is every argument joined by spaces.

Examples:
  todomanager add Buy milk -c shopping -p low
  todomanager add "Pay rent" --priority high --due "2026-07-01"
  todomanager add Call mum --due "tomorrow 6pm"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := model.Draft{Title: strings.Join(args, " ")}

			var err error
			if draft.Category, err = parseCategoryFlag(category); err != nil {
				return err
			}
			if draft.Priority, err = parsePriorityFlag(priority); err != nil {
				return err
			}
			if draft.DueDate, err = c.parseDueFlag(due); err != nil {
				return err
			}

			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := s.Create(context.Background(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "general, work, personal or shopping (default general)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high (default medium)")
	cmd.Flags().StringVarP(&due, "due", "d", "", `due date: "2026-07-01", "2026-07-01 17:00" or "tomorrow 5pm"`)
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	var title, category, priority, due, done string
	var noDue bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task",
		Long: `Change the fields given as flags. Unchanged fields keep their value.

A task whose due date has passed can only have its done state changed.

Examples:
  todomanager edit 3f2a --title "Buy oat milk"
  todomanager edit 3f2a --due "next friday" --priority high
  todomanager edit 3f2a --done unset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if noDue && flags.Changed("due") {
				return fmt.Errorf("%w: --due and --no-due are mutually exclusive", store.ErrValidation)
			}

			ctx := context.Background()
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := resolveTask(ctx, s, args[0])
			if err != nil {
				return err
			}

			fieldEdit := flags.Changed("title") || flags.Changed("category") ||
				flags.Changed("priority") || flags.Changed("due") || noDue
			if fieldEdit && task.PastDue(c.now()) {
				return fmt.Errorf("%w: task %s is past due; only --done can change", store.ErrValidation, shortID(task.ID))
			}

			patch := model.PatchFrom(task)
			if flags.Changed("title") {
				patch.Title = title
			}
			if flags.Changed("category") {
				if patch.Category, err = parseCategoryFlag(category); err != nil {
					return err
				}
			}
			if flags.Changed("priority") {
				if patch.Priority, err = parsePriorityFlag(priority); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				if patch.DueDate, err = c.parseDueFlag(due); err != nil {
					return err
				}
			}
			if noDue {
				patch.DueDate = nil
			}
			if flags.Changed("done") {
				if patch.Done, err = model.ParseDoneState(done); err != nil {
					return fmt.Errorf("%w: %w", store.ErrValidation, err)
				}
			}

			updated, err := s.Update(ctx, task.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", shortID(updated.ID), updated.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "general, work, personal or shopping")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new due date")
	cmd.Flags().BoolVar(&noDue, "no-due", false, "remove the due date")
	cmd.Flags().StringVar(&done, "done", "", "true, false or unset")
	return cmd
}

func newDoneCmd(c *cli) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := resolveTask(ctx, s, args[0])
			if err != nil {
				return err
			}

			patch := model.PatchFrom(task)
			patch.Done = model.DoneDone
			if undo {
				patch.Done = model.DoneNotDone
			}
			updated, err := s.Update(ctx, task.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", shortID(updated.ID), updated.Title, updated.Done)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task not done instead")
	return cmd
}

func newRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			task, err := resolveTask(ctx, s, args[0])
			if err != nil {
				return err
			}
			remaining, err := s.Delete(ctx, task.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s (%d left)\n", shortID(task.ID), task.Title, len(remaining))
			return nil
		},
	}
}

func parseCategoryFlag(s string) (model.Category, error) {
	if s == "" {
		return "", nil
	}
	c, err := model.ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", store.ErrValidation, err)
	}
	return c, nil
}

func parsePriorityFlag(s string) (model.Priority, error) {
	if s == "" {
		return 0, nil
	}
	p, err := model.ParsePriority(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrValidation, err)
	}
	return p, nil
}

// parseDueFlag parses a due date that must not be in the past.
func (c *cli) parseDueFlag(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := dateparse.ParseFuture(s, c.now().In(time.Local))
	if err != nil {
		return nil, fmt.Errorf("%w: due date: %w", store.ErrValidation, err)
	}
	return &t, nil
}
