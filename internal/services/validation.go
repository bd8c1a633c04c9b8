package services

import (
	"errors"
	"fmt"
	"strings"

	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateInput runs struct tag validation and reports failures as
// ErrInvalidInput naming the offending fields.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" "+fe.Tag())
		}
		return fmt.Errorf("%w: %s", echoo_errors.ErrInvalidInput, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", echoo_errors.ErrInvalidInput, err)
}
