package api

import (
	"github.com/go-playground/validator/v10"
	"regexp"
)

var queueNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidQueueName accepts names that map onto RQ_<NAME>_* settings keys.
var ValidQueueName validator.Func = func(fl validator.FieldLevel) bool {
	if name, ok := fl.Field().Interface().(string); ok {
		return queueNamePattern.MatchString(name)
	}
	return false
}
