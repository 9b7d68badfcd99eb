package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roompulse/roompulse/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <batch-file>",
	Short: "Merge a scraped activity batch into the activities log",
	Long: `ingest reads a batch of scraped activity rows (same format as the
activities log) and appends only the entries not already persisted, using
bucketed dedup keys. Running the same batch twice appends nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	batch := ingest.ParseActivities(f)
	f.Close()

	added, err := ingest.AppendActivities(cfg.Logs.ActivitiesPath(), batch)
	if err != nil {
		return err
	}

	fmt.Printf("ingested %d new of %d batch entries into %s\n",
		added, len(batch), cfg.Logs.ActivitiesPath())
	return nil
}
