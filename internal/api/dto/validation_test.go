package dto

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidations(t *testing.T) {
	require.NoError(t, RegisterValidations())
	// 重复调用
	require.NoError(t, RegisterValidations())

	base := CreateUserRequest{Name: "Joe", Username: "joe@example.com", Password: "secret"}

	tests := []struct {
		name     string
		lat, lon interface{}
		wantMsg  string
	}{
		{"未提供坐标", nil, nil, ""},
		{"数字", 30.1, -97.2, ""},
		{"字符串数字", "30.1", "-97.2", ""},
		{"空字符串", "", " ", ""},
		{"非数字", "north", -97.2, "Field 'lat' must be a number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.Lat, req.Lon = tt.lat, tt.lon
			err := binding.Validator.ValidateStruct(&req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, DescribeValidation(err))
		})
	}
}

func TestDescribeValidation(t *testing.T) {
	require.NoError(t, RegisterValidations())

	err := binding.Validator.ValidateStruct(&CreateUserRequest{Username: "joe@example.com", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, "Field 'name' is required.", DescribeValidation(err))

	assert.Equal(t, "Invalid request body.", DescribeValidation(errors.New("EOF")))
}
