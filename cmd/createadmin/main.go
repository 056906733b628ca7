package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mnki/internal/config"
	"mnki/internal/db"
	"mnki/internal/model"
	"mnki/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func main() {
	log.Println("Creating admin account...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	name := prompt(reader, "Admin name: ")
	if name == "" {
		log.Fatal("Name is required")
	}

	email := prompt(reader, "Admin email: ")
	if !emailPattern.MatchString(email) {
		log.Fatal("Invalid email format")
	}

	password := prompt(reader, "Admin password (min 8 characters): ")
	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters")
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Fatalf("Error checking existing account: %v", err)
	}
	if existing != nil {
		log.Fatalf("An account with email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	hashStr := string(hash)
	admin := &model.User{
		Username:     strings.Split(email, "@")[0],
		Name:         name,
		Email:        email,
		PasswordHash: &hashStr,
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin account created (id=%d, email=%s)", admin.ID, admin.Email)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
