package infinite

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RequireIDs rejects an empty id reference before any request is made.
func RequireIDs(op, name string, ids any) error {
	if err := validation.Validate(IDListAsArray(ids), validation.Required); err != nil {
		return ValidationError(op, fmt.Errorf("%s: %w", name, err))
	}
	return nil
}

// RequireOneOf rejects value unless it is one of allowed.
func RequireOneOf(op, name, value string, allowed ...string) error {
	in := make([]interface{}, len(allowed))
	for i, a := range allowed {
		in[i] = a
	}
	if err := validation.Validate(value, validation.Required, validation.In(in...)); err != nil {
		return ValidationError(op, fmt.Errorf("%s %q: %w", name, value, err))
	}
	return nil
}
