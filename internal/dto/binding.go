package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ledgerPathPattern accepts colon-delimited paths of alphanumeric/underscore
// segments, e.g. "Assets:bank:AlfaBank".
var ledgerPathPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(:[A-Za-z0-9_]+)*$`)

// RegisterCustomValidators installs the binding-level validators used by the
// request DTOs. Call once during startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ledgerpath", validLedgerPath)
	}
}

func validLedgerPath(fl validator.FieldLevel) bool {
	return ledgerPathPattern.MatchString(fl.Field().String())
}
