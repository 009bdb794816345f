package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appvalidator "github.com/jwalitptl/medtrack-api/pkg/validator"
)

// RegisterValidators installs the custom binding rules on gin's validator.
// It must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return appvalidator.Register(v)
}
