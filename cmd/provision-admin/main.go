// Command provision-admin creates or repairs the administrator account.
// Run it once against a fresh database, or again to reset the password.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"course-folder-api/config"
	"course-folder-api/models"
	"course-folder-api/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var (
		email    string
		password string
		name     string
		cnic     string
	)

	flag.StringVar(&email, "email", "", "admin email address")
	flag.StringVar(&password, "password", "", "admin password (min 8 characters)")
	flag.StringVar(&name, "name", "Administrator", "admin display name")
	flag.StringVar(&cnic, "cnic", "", "admin CNIC, 13 digits with optional dashes")
	flag.Parse()

	email = strings.ToLower(strings.TrimSpace(email))
	if !utils.ValidateEmail(email) {
		log.Fatal("a valid -email is required")
	}
	if !utils.ValidatePassword(password) {
		log.Fatal("-password must be at least 8 characters")
	}
	cnic = strings.TrimSpace(cnic)
	if !utils.ValidateCNIC(cnic) {
		log.Fatal("-cnic must be 13 digits, dashes optional")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	hashed := string(hashedBytes)

	now := time.Now()

	var existing models.User
	err = config.DB.Where("email = ? AND delete_at IS NULL", email).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"password":  hashed,
			"role":      models.RoleAdmin,
			"is_active": true,
			"update_at": now,
		}
		if err := config.DB.Model(&existing).Updates(updates).Error; err != nil {
			log.Fatalf("failed to update existing account: %v", err)
		}
		fmt.Printf("Existing account %s promoted to admin and password reset\n", email)

	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := models.User{
			CNIC:     cnic,
			FullName: strings.TrimSpace(name),
			Email:    email,
			Password: hashed,
			Role:     models.RoleAdmin,
			IsActive: true,
			CreateAt: &now,
			UpdateAt: &now,
		}
		if err := config.DB.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create admin account: %v", err)
		}
		fmt.Printf("Admin account %s created (user_id=%d)\n", email, admin.UserID)

	default:
		log.Fatalf("failed to look up account: %v", err)
	}
}
