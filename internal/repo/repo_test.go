package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWithSSLMode(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"user=postgres dbname=agro", "user=postgres dbname=agro sslmode=require"},
		{"user=postgres sslmode=disable", "user=postgres sslmode=disable"},
		{"postgres://u:p@db/agro", "postgres://u:p@db/agro?sslmode=require"},
		{"postgresql://u:p@db/agro?connect_timeout=5", "postgresql://u:p@db/agro?connect_timeout=5&sslmode=require"},
	} {
		assert.Equal(t, tc.want, WithSSLMode(tc.in), tc.in)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}
