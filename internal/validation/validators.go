package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for domain values
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("habit_category", validateHabitCategory); err != nil {
		panic(fmt.Sprintf("failed to register habit_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("habit_color", validateHabitColor); err != nil {
		panic(fmt.Sprintf("failed to register habit_color validator: %v", err))
	}
	if err := Validate.RegisterValidation("iso_date", validateISODate); err != nil {
		panic(fmt.Sprintf("failed to register iso_date validator: %v", err))
	}
}

// validateHabitCategory validates that a string is a known HabitCategory
func validateHabitCategory(fl validator.FieldLevel) bool {
	return models.ValidCategory(models.HabitCategory(fl.Field().String()))
}

// validateHabitColor validates that a string is a known HabitColor
func validateHabitColor(fl validator.FieldLevel) bool {
	return models.ValidColor(models.HabitColor(fl.Field().String()))
}

// validateISODate validates a YYYY-MM-DD day key
func validateISODate(fl validator.FieldLevel) bool {
	return habits.ValidDate(fl.Field().String())
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateCategory validates a habit category string value
func ValidateCategory(value string) error {
	if !models.ValidCategory(models.HabitCategory(value)) {
		return fmt.Errorf("invalid category: %s (must be 'Health', 'Productivity', 'Mindset', 'Learning', 'Social', or 'Other')", value)
	}
	return nil
}

// ValidateDate validates a YYYY-MM-DD day key
func ValidateDate(value string) error {
	if !habits.ValidDate(value) {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}

// ValidateDifficulty validates the 1..5 difficulty scale
func ValidateDifficulty(value int) error {
	if !habits.ValidDifficulty(value) {
		return fmt.Errorf("invalid difficulty: %d (must be between %d and %d)", value, habits.MinDifficulty, habits.MaxDifficulty)
	}
	return nil
}
