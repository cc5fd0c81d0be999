package validation

import (
	"testing"

	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ProductID int    `json:"product_id" validate:"gt=0"`
	Type      string `json:"type" validate:"required,oneof=entry exit"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{name: "valid", input: sample{ProductID: 1, Type: "entry"}},
		{name: "first violation wins", input: sample{ProductID: 0, Type: ""}, wantErr: "product_id must be greater than 0"},
		{name: "oneof", input: sample{ProductID: 3, Type: "gift"}, wantErr: "type must be one of [entry exit]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, custom_error.IsKind(err, custom_error.KindValidation))
		})
	}
}
