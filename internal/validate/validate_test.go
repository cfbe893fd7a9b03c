package validate

import (
	"testing"

	"eshop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() model.OrderRequest {
	return model.OrderRequest{
		OrderItems: []model.OrderItemRequest{
			{Product: "64b7f0c2a1b2c3d4e5f60718", Quantity: 1},
		},
		ShippingAddress1: "1 Main St",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "US",
		Phone:            "555",
		User:             "64b7f0c2a1b2c3d4e5f60719",
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name           string
		input          any
		expectedFields map[string]string
	}{
		{
			name:  "valid order",
			input: validOrder(),
		},
		{
			name: "zero quantity",
			input: func() model.OrderRequest {
				o := validOrder()
				o.OrderItems[0].Quantity = 0
				return o
			}(),
			expectedFields: map[string]string{"orderItems[0].quantity": "must be at least 1"},
		},
		{
			name: "missing product and city",
			input: func() model.OrderRequest {
				o := validOrder()
				o.OrderItems = append(o.OrderItems, model.OrderItemRequest{Quantity: 2})
				o.City = ""
				return o
			}(),
			expectedFields: map[string]string{
				"orderItems[1].product": "is required",
				"city":                  "is required",
			},
		},
		{
			name:           "invalid email",
			input:          model.LoginRequest{Email: "nope", Password: "x"},
			expectedFields: map[string]string{"email": "must be a valid email address"},
		},
		{
			name:           "negative price",
			input:          model.ProductRequest{Name: "n", Description: "d", Category: "c", Price: -1},
			expectedFields: map[string]string{"price": "must be greater than or equal to 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.expectedFields == nil {
				assert.NoError(t, err)
				return
			}

			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, model.ErrCodeValidation, de.Code)
			assert.Equal(t, tt.expectedFields, de.Fields)
		})
	}
}

func TestStruct_NonStruct(t *testing.T) {
	err := Struct("not a struct")
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeBadRequest, de.Code)
}
