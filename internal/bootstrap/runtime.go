// Package bootstrap wires up the runtime dependencies shared by the server
// and the maintenance commands: database, cache, and development fixtures.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"kindnest/internal/cache"
	"kindnest/internal/config"
	"kindnest/internal/database"
	"kindnest/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct{}

// InitRuntime connects to the database and Redis and ensures development
// fixtures. The Redis client may be nil when the cache is unreachable; the
// application treats the cache as best-effort throughout.
func InitRuntime(cfg *config.Config, _ Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevFamily(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development family: %w", err)
	}

	return db, r, nil
}

// ensureDevFamily creates a known parent and linked child account in
// development so a local frontend can log in without seeding first.
func ensureDevFamily(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapFamily {
		return nil
	}

	parentUsername := strings.TrimSpace(cfg.DevParentUsername)
	if parentUsername == "" {
		parentUsername = "kindnest_parent"
	}
	parentEmail := strings.TrimSpace(strings.ToLower(cfg.DevParentEmail))
	if parentEmail == "" {
		parentEmail = "parent@kindnest.local"
	}
	childUsername := strings.TrimSpace(cfg.DevChildUsername)
	if childUsername == "" {
		childUsername = "kindnest_kid"
	}
	password := cfg.DevFamilyPassword
	if password == "" {
		return fmt.Errorf("DEV_FAMILY_PASSWORD must be set when DEV_BOOTSTRAP_FAMILY is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev family password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var parent models.Parent
		findErr := tx.Where("username = ?", parentUsername).First(&parent).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			parent = models.Parent{
				Username:    parentUsername,
				Email:       parentEmail,
				DisplayName: "Dev Parent",
				Password:    string(hashedPassword),
			}
			if err := tx.Create(&parent).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if cfg.DevFamilyForceCredentials {
				updates := map[string]any{
					"email":    parentEmail,
					"password": string(hashedPassword),
				}
				if err := tx.Model(&models.Parent{}).Where("id = ?", parent.ID).Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		var child models.Child
		findErr = tx.Where("username = ?", childUsername).First(&child).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			child = models.Child{
				Username:    childUsername,
				DisplayName: "Dev Kid",
				Password:    string(hashedPassword),
				ParentID:    &parent.ID,
			}
			return tx.Create(&child).Error
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"parent_id": parent.ID}
			if cfg.DevFamilyForceCredentials {
				updates["password"] = string(hashedPassword)
			}
			return tx.Model(&models.Child{}).Where("id = ?", child.ID).Updates(updates).Error
		}
	}); err != nil {
		return err
	}

	log.Printf("development family bootstrap ensured (%s, %s)", parentUsername, childUsername)
	return nil
}
