package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), newConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// newConfig builds the GORM config. Error translation must stay on: callers
// match duplicate-key violations against gorm.ErrDuplicatedKey, which the
// MySQL driver only produces when TranslateError is set.
func newConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}
