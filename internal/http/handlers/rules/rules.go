package rules

import (
	"happystack/internal/core/domain/user"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	msgBlank    = "Can't be blank"
	msgInvalid  = "Is invalid"
	msgTooShort = "Must be at least 5 characters"
)

// Required and Optional differ only for missing values. Optional accepts a nil
// pointer but rejects an explicitly empty string.
var (
	Required = validation.Required.Error(msgBlank)
	Optional = validation.NilOrNotEmpty.Error(msgBlank)
)

func Username(presence validation.Rule) []validation.Rule {
	return []validation.Rule{
		presence,
		is.Alphanumeric.Error("Must contain only letters and numbers"),
		validation.RuneLength(5, 64).Error(msgTooShort),
	}
}

func Email(presence validation.Rule) []validation.Rule {
	return []validation.Rule{
		presence,
		is.Email.Error(msgInvalid),
		validation.Length(0, 512),
	}
}

// Password skips empty values, combine it with Required where one is needed.
func Password() []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(user.MinPasswordLength, 0).Error(msgTooShort),
		validation.Length(0, 1024),
	}
}
