package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/quickepk/quickepk/cmd"
	"github.com/quickepk/quickepk/internal/config"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/repository"
	"github.com/quickepk/quickepk/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	artistFlag string
	emailFlag  string
	slugFlag   string
	notifyFlag bool
)

// CreateCmd represents the 'create' command.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a press kit (and its owning account) from the command line.",
	Long: `This command creates an account for the given email if one does not
exist yet, then creates a published press kit for the artist.

Example:
  quickepk create --artist="The Midnight Sons" --email="band@example.com" --notify`,
	Run: func(cmd *cobra.Command, args []string) {
		if artistFlag == "" || emailFlag == "" {
			fmt.Println("Error: --artist and --email flags are required")
			os.Exit(1)
		}

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

		// Reuse the account for this email when it exists, create it otherwise.
		var account models.Account
		err = db.Where("email = ?", emailFlag).First(&account).Error
		if err == gorm.ErrRecordNotFound {
			account = models.Account{ID: uuid.New().String(), Email: emailFlag}
			if err := db.Create(&account).Error; err != nil {
				log.Fatalf("Failed to create account: %v", err)
			}
		} else if err != nil {
			log.Fatalf("Failed to look up account: %v", err)
		}

		pressKitRepo := repository.NewPressKitRepository(db)
		pressKitService := services.NewPressKitService(pressKitRepo)

		kit, err := pressKitService.CreatePressKit(account.ID, artistFlag, slugFlag, notifyFlag)
		if err != nil {
			log.Fatalf("Failed to create press kit: %v", err)
		}

		fmt.Printf("Press kit created successfully:\n")
		fmt.Printf("ID: %s\n", kit.ID)
		fmt.Printf("Slug: %s\n", kit.Slug)
		fmt.Printf("Public URL: %s/%s\n", cfg.Server.BaseURL, kit.Slug)
	},
}

func init() {
	CreateCmd.Flags().StringVar(&artistFlag, "artist", "", "Artist display name")
	CreateCmd.Flags().StringVar(&emailFlag, "email", "", "Owner account email")
	CreateCmd.Flags().StringVar(&slugFlag, "slug", "", "Public slug (defaults to the slugified artist name)")
	CreateCmd.Flags().BoolVar(&notifyFlag, "notify", false, "Enable view-notification emails")

	CreateCmd.MarkFlagRequired("artist")
	CreateCmd.MarkFlagRequired("email")

	cmd.RootCmd.AddCommand(CreateCmd)
}
