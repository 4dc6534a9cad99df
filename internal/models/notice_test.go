package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNoticeStatuses(t *testing.T) {
	statuses := ValidNoticeStatuses()
	assert.Len(t, statuses, 9)
}

func TestIsValidNoticeStatus(t *testing.T) {
	for _, status := range ValidNoticeStatuses() {
		assert.True(t, IsValidNoticeStatus(string(status)), string(status))
	}

	assert.False(t, IsValidNoticeStatus("aberto"))
	assert.False(t, IsValidNoticeStatus(""))
	assert.False(t, IsValidNoticeStatus("PUBLICADO"))
}
