package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roompulse/roompulse/internal/pipeline"
	"github.com/roompulse/roompulse/internal/report"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run one recomputation and write the output documents",
	Args:  cobra.NoArgs,
	RunE:  runCompute,
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cfg, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := pipeline.WriteDocuments(cfg, res); err != nil {
		return err
	}

	lb := res.Leaderboard
	fmt.Printf("computed run %s: %d users, %d pomodoros, %s of tracked work\n",
		lb.RunID, lb.TotalUsers, lb.TotalPomodoros,
		report.FormatMinutes(lb.TotalWorkMinutes))
	fmt.Printf("leaderboard: %s\n", cfg.Output.LeaderboardPath())
	return nil
}
