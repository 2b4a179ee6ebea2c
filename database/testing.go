package database

import (
	"fmt"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memCounter int64

// OpenMemory opens a private in-memory SQLite database with every table
// migrated. It backs package tests that need a real GORM connection.
func OpenMemory() (*gorm.DB, error) {
	name := fmt.Sprintf("file:mem%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", atomic.AddInt64(&memCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(AllModels...); err != nil {
		return nil, err
	}
	return db, nil
}
