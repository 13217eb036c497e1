// Command admin is the operations CLI: it manages workflow users and
// inspects claims directly against the database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"claimflow/backend/internal/models"
	"claimflow/backend/internal/storage"
	"claimflow/backend/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	zlog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil, zlog) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "add-user":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin add-user <username> <password> <claimant|reviewer|checker>")
			os.Exit(1)
		}
		if err := addUser(db, os.Args[2], os.Args[3], models.Role(os.Args[4])); err != nil {
			log.Fatalf("Error adding user: %v", err)
		}
		fmt.Printf("User %s created.\n", os.Args[2])

	case "list-users":
		if err := listUsers(db); err != nil {
			log.Fatalf("Error listing users: %v", err)
		}

	case "list-claims":
		var filter models.ClaimFilter
		if len(os.Args) > 2 {
			status := models.ClaimStatus(os.Args[2])
			if !status.Valid() {
				fmt.Printf("Unknown status %q.\n", os.Args[2])
				os.Exit(1)
			}
			filter.Statuses = []models.ClaimStatus{status}
		}
		if err := listClaims(storageSvc, filter); err != nil {
			log.Fatalf("Error listing claims: %v", err)
		}

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <add-user|list-users|list-claims> [args]")
	os.Exit(1)
}

func addUser(db *gorm.DB, username, password string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	user := models.User{Username: username, Role: role}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return db.Create(&user).Error
}

func listUsers(db *gorm.DB) error {
	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("%s\t%s\t%s\n", u.ID, u.Role, u.Username)
	}
	return nil
}

func listClaims(s *storage.Service, filter models.ClaimFilter) error {
	claims, err := s.ListClaims(context.Background(), filter)
	if err != nil {
		return err
	}
	for _, c := range claims {
		reviewer := "-"
		if c.AssignedReviewerID != nil {
			reviewer = *c.AssignedReviewerID
		}
		fmt.Printf("%s\t%-16s\tclaimant=%s\treviewer=%s\n", c.ID, c.Status, c.ClaimantUserID, reviewer)
	}
	return nil
}
