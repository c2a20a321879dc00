package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/octolearn/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all sessions and recent topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to reset without --yes")
		}
		return withSessions(cmd, func(s *session.Store) error {
			ctx := cmd.Context()
			err := errors.Join(s.DeleteAll(ctx), s.ClearRecent(ctx))
			if err != nil {
				return err
			}
			fmt.Println("Learner data reset.")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
}
