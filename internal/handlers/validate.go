package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"undian/internal/models"
)

// newValidator builds the shared validator with the Indonesian identity rules
// registered under the nik_id and telepon_id tags.
func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for a blank tag name.
	_ = v.RegisterValidation("nik_id", func(fl validator.FieldLevel) bool {
		return models.ValidNIK(fl.Field().String())
	})
	_ = v.RegisterValidation("telepon_id", func(fl validator.FieldLevel) bool {
		return models.ValidPhoneID(fl.Field().String())
	})
	return v
}

// validationResponse maps validator errors to a field->message body and writes
// the 400 response.
func validationResponse(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
