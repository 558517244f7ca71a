// Command rbac-init seeds the RBAC catalogs into storage and backfills the
// default role for users holding no role links. It is run by deployment
// tooling, not by end-user requests, and exits non-zero on any failure so
// pipelines can halt.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/app"
	"github.com/ndtollman/mainstay/internal/database"
	"github.com/ndtollman/mainstay/internal/models"
	"github.com/ndtollman/mainstay/internal/rbac"
	"github.com/ndtollman/mainstay/pkg/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mainstay-rbac-init", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	var skipAdmin bool
	fs.StringVar(&configPath, "config", "", "Path to configuration directory")
	fs.BoolVar(&skipAdmin, "skip-admin", false, "Skip bootstrap admin creation")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return err
	}
	defer logger.Sync() // best effort

	log := logger.WithComponent("rbac-init")

	db, err := database.Open(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	initializer, err := rbac.NewInitializer(db)
	if err != nil {
		return err
	}

	if !initializer.InitializeRBAC(ctx) {
		return errors.New("rbac initialization failed")
	}

	if !skipAdmin {
		if err := ensureBootstrapAdmin(ctx, db, log); err != nil {
			return err
		}
	}

	granted, err := initializer.BackfillDefaultRole(ctx)
	if err != nil {
		return fmt.Errorf("backfill default role: %w", err)
	}
	log.Info("rbac initialization complete", zap.Int("backfilled_users", granted))
	return nil
}

// ensureBootstrapAdmin creates an ADMIN-role user when the instance has no
// users at all. The password comes from MAINSTAY_ADMIN_PASSWORD or is
// generated and printed once.
func ensureBootstrapAdmin(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("MAINSTAY_ADMIN_PASSWORD")
	generated := false
	if password == "" {
		buf := make([]byte, 18)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = hex.EncodeToString(buf)
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:    "admin",
		Email:       "admin@localhost",
		Password:    string(hash),
		DisplayName: "Administrator",
		IsActive:    true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	var role models.Role
	if err := db.WithContext(ctx).First(&role, "name = ?", rbac.RoleAdmin).Error; err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	link := models.UserRole{
		UserID:     admin.ID,
		RoleID:     role.ID,
		AssignedBy: admin.ID,
		IsActive:   true,
	}
	if err := db.WithContext(ctx).Create(&link).Error; err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}

	if generated {
		fmt.Printf("bootstrap admin created - username: admin password: %s\n", password)
	}
	log.Info("bootstrap admin created", zap.String("username", admin.Username))
	return nil
}
