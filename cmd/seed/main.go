package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"sitesurvey/internal/survey/auth"
	"sitesurvey/internal/survey/config"
	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/repository"
	"sitesurvey/internal/survey/util"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seed tool: user accounts are provisioned out of band, never through the
// API. Usage:
//
//	seed -phone 9876543210 -password secret -name "A. Kumar" -role user
func main() {
	util.InitLogger()
	logger := util.GetLogger()

	phone := flag.String("phone", "", "phone number (any dialable form)")
	password := flag.String("password", "", "initial password")
	name := flag.String("name", "", "display name")
	role := flag.String("role", model.RoleUser, "role: user or admin")
	flag.Parse()

	if *phone == "" || *password == "" || *name == "" {
		logger.Error("phone, password, and name are required")
		os.Exit(1)
	}
	if !model.AllowedRoles[*role] {
		logger.Error("invalid role", "role", *role)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	userRepo := repository.NewMongoUserRepository(client.Database(cfg.DBName), cfg.UsersCollection)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure user indexes", "error", err)
	}

	normalized := auth.NormalizePhone(*phone)
	if normalized == "" {
		logger.Error("phone did not normalize to a valid number", "phone", *phone)
		os.Exit(1)
	}

	user := &model.User{
		Phone:        normalized,
		PasswordHash: auth.HashPassword(*password),
		Name:         *name,
		Role:         *role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Error("a user with this phone already exists", "phone", normalized)
		} else {
			logger.Error("Failed to create user", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("user created", "id", user.ID, "phone", normalized, "role", *role)
}
