package events

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Change is the before and after state of an updated object, each kept as the
// JSON document the business service serialized at the time.
type Change struct {
	PreviousValues string `json:"previous_values"`
	CurrentValues  string `json:"current_values"`
}

func (c Change) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PreviousValues, validation.Required, is.JSON),
		validation.Field(&c.CurrentValues, validation.Required, is.JSON),
	)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
