package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/octolearn/internal/session"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Inspect or clear recent topics",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent topics, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(s *session.Store) error {
			recent := s.Recent()
			if len(recent) == 0 {
				fmt.Println("No recent topics.")
				return nil
			}
			for i, t := range recent {
				fmt.Printf("%d. %s\n", i+1, t)
			}
			return nil
		})
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recent topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(s *session.Store) error {
			return s.ClearRecent(cmd.Context())
		})
	},
}

func init() {
	recentCmd.AddCommand(recentListCmd)
	recentCmd.AddCommand(recentClearCmd)
}
