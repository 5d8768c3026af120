package main

import (
	"flag"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/kugesan/eduquest/internal/app"
	"github.com/kugesan/eduquest/internal/models"
)

// Seeds an account from the command line, typically an instructor: signup
// over HTTP defaults to the student role.
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	role := flag.String("role", models.RoleInstructor, "account role: student or instructor")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		logger.Error.Fatalf("name, email and password are required")
	}
	if *role != models.RoleStudent && *role != models.RoleInstructor {
		logger.Error.Fatalf("unknown role: %s", *role)
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	existing, err := service.Store.GetUserByEmail(*email)
	if err != nil {
		logger.Error.Fatalf("Failed to check email: %v", err)
	}
	if existing != nil {
		logger.Error.Fatalf("A user with email %s already exists", *email)
	}

	hash, err := app.HashPassword(*password)
	if err != nil {
		logger.Error.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         *name,
		Email:        *email,
		PasswordHash: hash,
		Role:         *role,
	}

	if err := service.Store.CreateUser(user); err != nil {
		logger.Error.Fatalf("Failed to create user: %v", err)
	}

	logger.Info.Printf("Created %s account %s (%s)", user.Role, user.Email, user.ID)
}
