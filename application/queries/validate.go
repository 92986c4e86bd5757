package queries

import (
	"socialgraph/pkg/errors"
	"socialgraph/pkg/utils"
)

// validate runs struct tag validation and reports failures as VALIDATION errors
func validate(q interface{}) error {
	if err := utils.ValidateStruct(q); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
