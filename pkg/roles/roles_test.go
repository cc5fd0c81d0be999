package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{Admin, Operator, true},
		{Operator, Operator, true},
		{Viewer, Operator, false},
		{Operator, Admin, false},
		{Role("guest"), Viewer, true},
		{Role("guest"), Operator, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"->"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.HasPermission(tt.required))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, Operator.IsValid())
	assert.False(t, Role("moderator").IsValid())
	assert.Equal(t, 0, Role("moderator").Rank())
}
