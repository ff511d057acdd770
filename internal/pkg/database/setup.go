package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// DB is the shared connection pool, set by SetupDatabase.
var DB *gorm.DB

// GetDB returns the shared connection pool.
func GetDB() *gorm.DB {
	return DB
}

// DSN builds the MySQL data source name from the DB_* environment.
func DSN() string {
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.PayPerViewPurchase{},
		&models.Movie{},
		&models.TvShow{},
		&models.Episode{},
		&models.Setting{},
	}
}

func SetupDatabase(log *logrus.Entry) {
	var err error
	gormLogger := logger.Default.LogMode(logger.Warn)
	if env.IsDev() {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       DSN(), // data source name
			DefaultStringSize:         256,   // default size for string fields
			DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
		}), &gorm.Config{Logger: gormLogger})
		if err == nil {
			if err = DB.AutoMigrate(Models()...); err != nil {
				log.WithError(err).Fatal("auto migration failed")
			}
			return
		}

		log.WithError(err).WithField("attempt", fmt.Sprintf("%d/%d", i+1, maxRetries)).Warn("failed to connect to database")
		if i < maxRetries-1 {
			log.Infof("retrying in %v", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}
