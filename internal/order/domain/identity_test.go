package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name    string
		session Identity
		payload Identity
		want    Identity
	}{
		{
			name:    "session wins over payload",
			session: Identity{Name: "Ana", Email: "ana@shop.test"},
			payload: Identity{Name: "Mallory", Email: "mallory@evil.test"},
			want:    Identity{Name: "Ana", Email: "ana@shop.test"},
		},
		{
			name:    "payload fills missing session",
			session: Identity{},
			payload: Identity{Name: "Bruno", Email: "bruno@shop.test"},
			want:    Identity{Name: "Bruno", Email: "bruno@shop.test"},
		},
		{
			name:    "per-field fallback",
			session: Identity{Name: "Ana"},
			payload: Identity{Name: "Mallory", Email: "ana@shop.test"},
			want:    Identity{Name: "Ana", Email: "ana@shop.test"},
		},
		{
			name:    "both empty stays empty",
			session: Identity{},
			payload: Identity{},
			want:    Identity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveIdentity(tt.session, tt.payload))
		})
	}
}

func TestIdentityValid(t *testing.T) {
	assert.True(t, Identity{Name: "Ana", Email: "ana@shop.test"}.Valid())
	assert.False(t, Identity{Name: "Ana"}.Valid())
	assert.False(t, Identity{Email: "ana@shop.test"}.Valid())
	assert.False(t, Identity{}.Valid())
}
