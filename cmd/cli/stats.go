package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/quickepk/quickepk/cmd"
	"github.com/quickepk/quickepk/internal/config"
	"github.com/quickepk/quickepk/internal/repository"
	"github.com/quickepk/quickepk/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	apperrors "github.com/quickepk/quickepk/internal/errors"
)

// StatsCmd represents the 'stats' command.
var StatsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Show the analytics overview for a press kit",
	Long:  `Computes and prints the analytics overview for the press kit with the given slug.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats executes the logic for the stats command.
func runStats(cmd *cobra.Command, args []string) {
	slug := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
	}
	defer sqlDB.Close()

	pressKitRepo := repository.NewPressKitRepository(db)
	viewRepo := repository.NewViewRepository(db)
	clickRepo := repository.NewClickRepository(db)
	analyticsService := services.NewAnalyticsService(pressKitRepo, viewRepo, clickRepo)

	kit, err := pressKitRepo.GetPressKitBySlug(slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrPressKitNotFound) {
			fmt.Printf("Error: Press kit '%s' not found\n", slug)
		} else {
			fmt.Printf("Error retrieving press kit: %v\n", err)
		}
		os.Exit(1)
	}

	overview, err := analyticsService.OverviewForPressKit(kit.ID, time.Now())
	if err != nil {
		fmt.Printf("Error computing analytics: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Analytics for %s (%s)\n", kit.ArtistName, kit.Slug)
	fmt.Printf("Total views: %d\n", overview.TotalViews)
	fmt.Printf("Unique visitors: %d\n", overview.UniqueViews)
	fmt.Printf("Total clicks: %d\n", overview.TotalClicks)
	fmt.Printf("Avg. time on page: %ds\n", overview.AvgTimeOnPage)

	if len(overview.TopReferrers) > 0 {
		fmt.Println("Top referrers:")
		for _, ref := range overview.TopReferrers {
			fmt.Printf("  %-30s %d\n", ref.Referrer, ref.Count)
		}
	}
	if len(overview.ClicksByType) > 0 {
		fmt.Println("Clicks by type:")
		for _, tc := range overview.ClicksByType {
			fmt.Printf("  %-10s %d\n", tc.Type, tc.Count)
		}
	}
}
