package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/app/repository"
	"github.com/ManuelReschke/CineFox/internal/pkg/cache"
	"github.com/ManuelReschke/CineFox/internal/pkg/database"
	"github.com/ManuelReschke/CineFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/CineFox/internal/pkg/env"
	"github.com/ManuelReschke/CineFox/internal/pkg/logging"
)

func main() {
	env.SetupEnvFile()
	log := logging.NewLogger("migrate")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	if command == "access-control" {
		setAccessControl(log)
		return
	}

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true&parseTime=true",
		env.GetEnv("DB_USER", "cinefox"),
		env.GetEnv("DB_PASSWORD", "cinefox"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "cinefox_db"),
	)

	log.Infof("connecting to database %s@%s:%s/%s",
		env.GetEnv("DB_USER", "cinefox"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "cinefox_db"),
	)

	m, err := migrate.New(
		"file://migrations",
		dbURL,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize migrations")
	}

	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Errorf("failed to close migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.WithError(err).Fatal("failed to apply migrations")
		} else if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no change: database is up to date")
		} else {
			log.Info("migrations applied")
			flushPlanCache()
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.WithError(err).Fatal("failed to roll back the last migration")
		}
		log.Info("rolled back the last migration")
		flushPlanCache()

	case "goto":
		if len(os.Args) < 3 {
			log.Fatal("please provide a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.WithError(err).Fatal("invalid version number")
		}

		if err := m.Migrate(uint(version)); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.WithError(err).Fatalf("failed to migrate to version %d", version)
		} else if errors.Is(err, migrate.ErrNoChange) {
			log.Infof("no change: database is already at version %d", version)
		} else {
			log.Infof("migrated to version %d", version)
			flushPlanCache()
		}

	case "status":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Info("no migrations have been applied yet")
			} else {
				log.WithError(err).Fatal("failed to read migration version")
			}
		} else {
			log.WithField("dirty", dirty).Infof("current migration version: %d", version)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

// flushPlanCache drops cached plan-label resolutions; migrations may have
// changed the plan catalog.
func flushPlanCache() {
	log := logging.NewLogger("migrate")
	cache.SetupCache(log)
	n, err := cache.DeletePrefix(context.Background(), entitlements.PlanLabelCachePrefix)
	if err != nil {
		log.WithError(err).Warn("failed to flush plan cache")
		return
	}
	log.WithField("keys", n).Info("plan cache flushed")
}

// setAccessControl writes the kill-switch row; running services pick it up
// on their next settings refresh.
func setAccessControl(log *logrus.Entry) {
	if len(os.Args) < 3 {
		log.Fatal("please provide on or off")
	}
	var disabled string
	switch os.Args[2] {
	case "on":
		disabled = "false"
	case "off":
		disabled = "true"
	default:
		log.Fatalf("unknown access-control mode %q, expected on or off", os.Args[2])
	}

	database.SetupDatabase(log)
	settings := repository.NewSettingRepository(database.GetDB())
	if err := settings.SetValue(context.Background(), models.SettingAccessControlDisabled, disabled); err != nil {
		log.WithError(err).Fatal("failed to update access control setting")
	}
	log.WithField("access_control", os.Args[2]).Info("access control setting updated")
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current migration version")
	fmt.Println("  access-control on|off - toggle entitlement checks at runtime")
}
