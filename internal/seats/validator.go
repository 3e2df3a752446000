package seats

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// seatNumberPattern accepts the {row}{letter} format. Whether the seat
// exists in a given cabin is checked later against the trip's layout.
var seatNumberPattern = regexp.MustCompile(`^[1-9][0-9]{0,2}[A-Fa-f]$`)

// RegisterSeatNumberValidation wires the seat_number binding tag into gin's
// validator engine. Call once at startup.
func RegisterSeatNumberValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seat_number", func(fl validator.FieldLevel) bool {
			return seatNumberPattern.MatchString(fl.Field().String())
		})
	}
}
