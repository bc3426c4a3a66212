package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/quickepk/quickepk/cmd"
	"github.com/quickepk/quickepk/internal/config"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// MigrateCmd represents the 'migrate' command.
// This command handles database schema creation and updates.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite)
and executes GORM automatic migrations to create the 'accounts',
'press_kits', 'view_events' and 'click_events' tables based on the Go models.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		// GORM automatic migrations create tables from the model structs
		// and add new columns when the models change.
		if err := db.AutoMigrate(
			&models.Account{},
			&models.PressKit{},
			&models.ViewEvent{},
			&models.ClickEvent{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
