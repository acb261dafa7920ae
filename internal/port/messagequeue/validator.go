package messagequeue

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Validate checks whether data is valid JSON conforming to the schema
// associated with the given subject, including its required fields.
// Unknown subjects only need valid JSON.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	var target any
	switch subject {
	case SubjectSchoolProvisioned:
		target = &SchoolProvisionedPayload{}
	case SubjectAccountCreated:
		target = &AccountCreatedPayload{}
	case SubjectSetupCompleted:
		target = &SetupCompletedPayload{}
	default:
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	if err := schema.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, fe.Field())
			}
			return fmt.Errorf("schema validation failed for %s: missing %s", subject, strings.Join(missing, ", "))
		}
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	return nil
}
