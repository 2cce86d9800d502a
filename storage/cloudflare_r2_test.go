package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{"host only", "https://cdn.example", "tournaments/1/bracket.json", "https://cdn.example/tournaments/1/bracket.json"},
		{"trailing slash", "https://cdn.example/", "/tournaments/1/bracket.json", "https://cdn.example/tournaments/1/bracket.json"},
		{"base path", "https://cdn.example/archive", "tournaments/1/bracket.json", "https://cdn.example/archive/tournaments/1/bracket.json"},
		{"no base", "", "k", ""},
		{"no key", "https://cdn.example", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicURL(tt.base, tt.key))
		})
	}
}

func TestNewCloudflareR2Uploader_RequiresConfig(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	assert.ErrorIs(t, err, ErrInvalidR2Config)
}
