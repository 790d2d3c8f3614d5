package hastus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/hastus"
)

// TestUniqueRouteLabel covers the full asymmetric variant rule; the exact
// cases are load-bearing Hastus conventions, so every branch is pinned.
func TestUniqueRouteLabel(t *testing.T) {
	tests := []struct {
		route   string
		variant string
		want    string
	}{
		{"123", "", "123"},
		{"123", "1", "123"},
		{"123", "2", "123"},
		{"123", "B", "123B"},
		{"123", "B1", "123B"},
		{"123", "B2", "123B"},
		{"123", "B3", "123B_3"},
		{"123", "B9", "123B_9"},
		{"123", "BK", "123BK"},
		{"4571", "K3", "4571K_3"},
		{"20", "3", "20_3"},
	}
	for _, tc := range tests {
		t.Run(tc.route+"/"+tc.variant, func(t *testing.T) {
			assert.Equal(t, tc.want, hastus.UniqueRouteLabel(tc.route, tc.variant))
		})
	}
}
