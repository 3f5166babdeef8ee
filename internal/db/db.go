// Package db opens the relational store and keeps its schema current.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/lokke174/Neimark-hackathon/internal/chat"
)

// Connect opens the store by driver name ("sqlite" or "mysql") and
// migrates the chat tables.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}

	if err := gdb.AutoMigrate(&chat.User{}, &chat.Chat{}, &chat.Message{}); err != nil {
		return nil, fmt.Errorf("db: migrate: %w", err)
	}
	return gdb, nil
}
