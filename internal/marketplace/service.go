// Package marketplace is the single business-logic layer. Both the
// GraphQL resolvers and the websocket event channel are thin adapters
// over the operations defined here, so authorization and workflow rules
// live in exactly one place.
package marketplace

import (
	"github.com/AlvinAbiero/online-marketplace/internal/fanout"
	"github.com/AlvinAbiero/online-marketplace/internal/payment"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Service struct {
	DB      *gorm.DB
	Gateway payment.Gateway
	Fanout  *fanout.Fanout

	// Frontend origin for payment return/cancel URLs.
	ClientURL string

	validate *validator.Validate
}

func NewService(db *gorm.DB, gateway payment.Gateway, bus *fanout.Fanout, clientURL string) *Service {
	return &Service{
		DB:        db,
		Gateway:   gateway,
		Fanout:    bus,
		ClientURL: clientURL,
		validate:  validator.New(),
	}
}

// validateInput runs the struct tags and converts the first failure into
// a user-visible validation error.
func (s *Service) validateInput(input interface{}) error {
	if err := s.validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return ErrValidation(validationMessage(errs[0]))
		}
		return ErrValidation("invalid input")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	}
	return field + " is invalid"
}
