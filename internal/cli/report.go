package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roompulse/roompulse/internal/engage"
	"github.com/roompulse/roompulse/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the markdown table from an existing leaderboard document",
	Long: `report reads the persisted leaderboard JSON and prints the markdown
table without recomputing anything, so reports can be regenerated after the
logs have rotated away.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Output.LeaderboardPath())
	if err != nil {
		return fmt.Errorf("read leaderboard document (run `roompulse compute` first?): %w", err)
	}
	var lb engage.Leaderboard
	if err := json.Unmarshal(data, &lb); err != nil {
		return fmt.Errorf("parse leaderboard document: %w", err)
	}

	fmt.Print(report.Markdown(cfg.Room.Name, &lb))
	return nil
}
