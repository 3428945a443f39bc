package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
)

func newPrefsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
		Long: `Show or change the stored display preferences.

Keys:
  isListRowSpacing  extra spacing between list rows
  isDarkOn          dark colour theme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.listPrefs(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show every preference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.listPrefs(cmd)
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Show one preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := checkPrefKey(args[0]); err != nil {
					return err
				}
				s, err := c.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				v, err := s.GetPreference(context.Background(), args[0], c.prefDefault(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY true|false",
			Short: "Change one preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := checkPrefKey(args[0]); err != nil {
					return err
				}
				v, err := strconv.ParseBool(args[1])
				if err != nil {
					return fmt.Errorf("%w: value %q is not a boolean", store.ErrValidation, args[1])
				}
				s, err := c.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.SetPreference(context.Background(), args[0], v); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %t\n", args[0], v)
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) listPrefs(cmd *cobra.Command) error {
	s, err := c.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, key := range model.PreferenceKeys {
		v, err := s.GetPreference(context.Background(), key, c.prefDefault(key))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %t\n", key, v)
	}
	return nil
}

func (c *cli) prefDefault(key string) bool {
	if key == model.PrefDarkMode && c.darkDefault != nil {
		return c.darkDefault()
	}
	return false
}

func checkPrefKey(key string) error {
	if !model.KnownPreference(key) {
		return fmt.Errorf("%w: unknown preference %q", store.ErrValidation, key)
	}
	return nil
}
