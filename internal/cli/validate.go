package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"expensetracker/internal/core"
)

var validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	validate = validator.New()

	// String is not empty and not only whitespace
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	// Positive decimal amount with a dot separator
	_ = validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := core.ParseAmount(fl.Field().String())
		return err == nil
	})
}

// expenseInput is the raw add form before it reaches the store.
type expenseInput struct {
	Amount   string `validate:"required,notblank,amount"`
	Category string `validate:"required,notblank"`
	Date     string `validate:"required,datetime=2006-01-02"`
	Notes    string
}

// InputError lists every problem found in user input.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (in expenseInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ie := &InputError{}
	missing := []string{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			missing = append(missing, strings.ToLower(fe.Field()))
		case "amount":
			ie.Problems = append(ie.Problems, fmt.Sprintf("Please enter valid amount (got %q)", fe.Value()))
		case "datetime":
			ie.Problems = append(ie.Problems, fmt.Sprintf("Please enter date as YYYY-MM-DD (got %q)", fe.Value()))
		default:
			ie.Problems = append(ie.Problems, fe.Error())
		}
	}
	if len(missing) > 0 {
		ie.Problems = append([]string{"Please fill all required fields: " + strings.Join(missing, ", ")}, ie.Problems...)
	}
	return ie
}

// fieldValidator adapts a single-field rule for huh inputs.
func fieldValidator(tag, message string) func(string) error {
	return func(s string) error {
		if err := validate.Var(s, tag); err != nil {
			return errors.New(message)
		}
		return nil
	}
}
