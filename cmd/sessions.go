package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and manage saved learning sessions",
}

// withSessions opens the store and hands the session registry to fn.
func withSessions(cmd *cobra.Command, fn func(*session.Store) error) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(session.Open(cmd.Context(), st.EntryRepo(), logging.Nop()))
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(s *session.Store) error {
			topics := s.Topics()
			if len(topics) == 0 {
				fmt.Println("No saved sessions.")
				return nil
			}
			active, _ := s.Active()

			fmt.Printf("%-2s  %-40s  %-12s  %s\n", "", "Topic", "Level", "Score")
			fmt.Println(strings.Repeat("─", 70))
			for _, t := range topics {
				rec, _ := s.Get(t)
				mark := ""
				if t == active {
					mark = "●"
				}
				_, correct := quiz.NewEvaluator(rec.Quiz).Score()
				fmt.Printf("%-2s  %-40s  %-12s  %d/%d\n",
					mark, truncate(t, 40), rec.Level.DisplayName(), correct, len(rec.Quiz))
			}
			return nil
		})
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <topic>",
	Short: "Print a session's explanation and quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(s *session.Store) error {
			rec, ok := s.Get(session.NormalizeTopic(args[0]))
			if !ok {
				return fmt.Errorf("no session for %q", args[0])
			}

			sep := strings.Repeat("─", 60)
			fmt.Printf("Topic:  %s\n", rec.Topic)
			fmt.Printf("Level:  %s\n", rec.Level.DisplayName())
			fmt.Println(sep)
			fmt.Println(rec.Explanation)
			fmt.Println(sep)

			if len(rec.Quiz) == 0 {
				fmt.Println("(no quiz)")
				return nil
			}
			for i, it := range rec.Quiz {
				fmt.Printf("%d. %s\n", i+1, it.Question)
				for j, opt := range it.Options {
					mark := " "
					switch {
					case opt == it.Answer:
						mark = "✓"
					case it.Answered() && opt == it.Choice():
						mark = "✗"
					}
					fmt.Printf("   %s %c) %s\n", mark, 'A'+j, opt)
				}
				if it.Explanation != "" {
					fmt.Printf("   %s\n", it.Explanation)
				}
			}
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <topic>",
	Short: "Delete one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(s *session.Store) error {
			topic := session.NormalizeTopic(args[0])
			if _, ok := s.Get(topic); !ok {
				return fmt.Errorf("no session for %q", args[0])
			}
			if err := s.Delete(cmd.Context(), topic); err != nil {
				return err
			}
			fmt.Printf("Deleted %q.\n", topic)
			return nil
		})
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(s *session.Store) error {
			n := s.Len()
			if err := s.DeleteAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Deleted %d session(s).\n", n)
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}
