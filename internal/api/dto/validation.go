package dto

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

var registerOnce sync.Once

// RegisterValidations 注册自定义校验规则，重复调用无副作用
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("coordinate", validateCoordinate)
	})
	return err
}

// validateCoordinate 字符串或数字形式的经纬度，空字符串视为未提供
func validateCoordinate(fl validator.FieldLevel) bool {
	raw := fl.Field().Interface()
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	_, err := cast.ToFloat64E(raw)
	return err == nil
}

// DescribeValidation 把校验错误转成一句话
func DescribeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body."
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required.", field)
	case "max":
		return fmt.Sprintf("Field '%s' is too long.", field)
	case "coordinate":
		return fmt.Sprintf("Field '%s' must be a number.", field)
	}
	return fmt.Sprintf("Field '%s' is invalid.", field)
}
