package internal

import (
	"fmt"
	"net/http"
)

// coerceAndValidate turns the raw form body into a typed payload and runs
// every applicable validator. Only fields editable for the current write
// are touched, so read-only columns can never be smuggled in through the
// form.
//
// A select value outside the option set is tampering, not user error:
// the dropdown cannot produce it. That fails hard with a 500 instead of
// joining the validation faults.
func coerceAndValidate(ctx *Context) (Record, error) {
	creating := ctx.Creating()
	payload := Record{}
	var faults []ValidationFault

	for _, field := range ctx.Fields() {
		if !field.EditableFor(creating) {
			continue
		}

		value, err := coerceField(ctx, field)
		if err != nil {
			return nil, err
		}
		payload[field.Name] = value

		validators := []*Validator{field.Validate}
		if creating {
			validators = append(validators, field.ValidateCreate)
		} else {
			validators = append(validators, field.ValidateEdit)
		}
		for _, v := range validators {
			for _, message := range v.run(ctx, value, payload) {
				faults = append(faults, ValidationFault{
					Value:   value,
					Field:   field,
					Message: message,
				})
			}
		}
	}

	if len(faults) > 0 {
		return nil, NewValidationError(faults, payload)
	}
	return payload, nil
}

func coerceField(ctx *Context, field *Field) (any, error) {
	raw := ctx.Body().Get(field.Name)

	switch field.Type {
	case FieldBoolean:
		// Checkboxes submit a value when checked and nothing otherwise.
		return raw != "", nil

	case FieldSelect:
		if field.Nullable && raw == "" {
			return nil, nil
		}
		if !containsOption(field.ResolveOptions(ctx), raw) {
			return nil, NewError(http.StatusInternalServerError,
				fmt.Sprintf("Invalid value for field %q", field.Name))
		}
		return raw, nil

	default:
		return raw, nil
	}
}
