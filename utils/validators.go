package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Readiness states reported by the client at login.
var readinessStates = map[string]bool{
	"READY":   true,
	"CAUTION": true,
	"OBSERVE": true,
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("readiness", ValidateReadinessRule)
}

// InitValidator installs the custom rules on gin's binding engine.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

func ValidateReadinessRule(fl validator.FieldLevel) bool {
	return IsReadiness(fl.Field().String())
}

func IsReadiness(value string) bool {
	return readinessStates[value]
}
