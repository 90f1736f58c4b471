package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_TranslatesDriverErrors(t *testing.T) {
	cfg := newConfig()
	assert.True(t, cfg.TranslateError, "duplicate-key handling relies on gorm sentinel errors")
}
