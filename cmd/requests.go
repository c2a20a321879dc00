package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/octolearn/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect calls made to the generation service",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		flowID, _ := cmd.Flags().GetString("flow")
		endpoint, _ := cmd.Flags().GetString("endpoint")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryRequests(cmd.Context(), store.QueryOpts{
			Limit:    limit,
			FlowID:   flowID,
			Endpoint: endpoint,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-8s  %-12s  %-24s  %-4s  %-7s  %s\n",
			"Seq", "Timestamp", "Flow", "Endpoint", "Topic", "Code", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-5d  %-19s  %-8s  %-12s  %-24s  %-4d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.FlowID, 8),
				e.Endpoint,
				truncate(e.Topic, 24),
				e.StatusCode,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	requestsListCmd.Flags().String("flow", "", "Only show requests from this flow ID")
	requestsListCmd.Flags().StringP("endpoint", "e", "", "Filter by endpoint (e.g. /api/explain)")
	requestsCmd.AddCommand(requestsListCmd)
}
