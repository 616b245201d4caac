package internal

import (
	"fmt"
	"slices"
)

// FieldType determines how a field is coerced from form input and how the
// default views render it.
type FieldType string

const (
	// FieldString renders as a single-line text input.
	FieldString FieldType = "string"
	// FieldSecret renders as a password input.
	FieldSecret FieldType = "secret"
	// FieldText renders as a multi-line textarea.
	FieldText FieldType = "text"
	// FieldSelect renders as a dropdown restricted to a fixed option set.
	FieldSelect FieldType = "select"
	// FieldBoolean renders as a checkbox and coerces to a bool.
	FieldBoolean FieldType = "boolean"
)

// SelectOption is one entry of a select field's option set. Value is what
// travels over the wire; Label is what the dropdown shows (falls back to
// Value when empty).
type SelectOption struct {
	Value string
	Label string
}

func (o SelectOption) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// ValidateFunc validates a coerced field value. It returns one message per
// failure, excluding the field name ("can't be blank", not "Name can't be
// blank"); nil or empty means the value passed. The raw form body is
// available for cross-field checks.
type ValidateFunc func(ctx *Context, value any, record Record) []string

// Validator attaches validation to a field. Exactly one of Func or Rules
// should be set; when both are set, Func runs first and Rules after.
type Validator struct {
	Func  ValidateFunc
	Rules *Rules
}

func (v *Validator) run(ctx *Context, value any, record Record) []string {
	if v == nil {
		return nil
	}
	var messages []string
	if v.Func != nil {
		messages = append(messages, v.Func(ctx, value, record)...)
	}
	if v.Rules != nil {
		messages = append(messages, v.Rules.evaluate(ctx, value, record)...)
	}
	return messages
}

// ValueFunc computes a per-record value at render time. The record index
// is the position within the listed page, or -1 outside of list rendering.
type ValueFunc func(ctx *Context, record Record, index int) any

// RenderFunc produces custom markup for a field value. The returned string
// is trusted HTML and is not escaped.
type RenderFunc func(ctx *Context, record Record, index int) string

// Field describes one column of the managed resource.
//
// The zero value of the visibility flags means fully visible and editable;
// set the Hide*/ReadOnly/CreateOnly/UpdateOnly flags to restrict.
type Field struct {
	// Name is the form field name and the record key. Required.
	Name string

	// Type defaults to FieldString.
	Type FieldType

	// Title overrides the derived column heading.
	Title string

	// Label overrides the derived lowercase label used in validation
	// messages and form labels.
	Label string

	// HelpText is markdown shown under the form input.
	HelpText string

	// HideInList excludes the field from list pages.
	HideInList bool

	// HideInDetail excludes the field from detail pages.
	HideInDetail bool

	// ReadOnly excludes the field from both create and edit forms.
	ReadOnly bool

	// CreateOnly makes the field editable only when creating a record.
	CreateOnly bool

	// UpdateOnly makes the field editable only when editing an existing
	// record.
	UpdateOnly bool

	// Default is the literal initial value for create forms.
	Default any

	// DefaultFunc computes the initial value for create forms. Takes
	// precedence over Default when set.
	DefaultFunc func(ctx *Context) any

	// Options is the literal option set for select fields.
	Options []SelectOption

	// OptionsFunc computes the option set for select fields. Takes
	// precedence over Options when set.
	OptionsFunc func(ctx *Context) []SelectOption

	// Nullable lets a select field accept an empty submission, which
	// coerces to nil.
	Nullable bool

	// NullLabel is the dropdown label of the empty choice for nullable
	// select fields. Defaults to an empty label.
	NullLabel string

	// Validate runs for both create and edit submissions.
	Validate *Validator

	// ValidateCreate runs for create submissions only.
	ValidateCreate *Validator

	// ValidateEdit runs for edit submissions only.
	ValidateEdit *Validator

	// ListView overrides the rendered cell on list pages.
	ListView RenderFunc

	// EditView overrides the rendered input control on create and edit
	// forms. The label, help text and fault list still render around it.
	EditView RenderFunc

	// DetailView overrides the rendered value on detail pages.
	DetailView RenderFunc
}

// DisplayTitle returns the explicit title or derives one from the name
// ("pay_slip" becomes "Pay slip").
func (f *Field) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return Capitalize(Deslugify(f.Name))
}

// DisplayLabel returns the explicit label or derives a lowercase one from
// the name. Validation messages prefix this with a capital via FullMessage.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return Deslugify(f.Name)
}

// EditableFor reports whether the field appears on the form for the given
// write (create or edit of an existing record).
func (f *Field) EditableFor(creating bool) bool {
	if f.ReadOnly {
		return false
	}
	if creating {
		return !f.UpdateOnly
	}
	return !f.CreateOnly
}

// ResolveOptions returns the option set, invoking OptionsFunc when present.
func (f *Field) ResolveOptions(ctx *Context) []SelectOption {
	if f.OptionsFunc != nil {
		return f.OptionsFunc(ctx)
	}
	return f.Options
}

// ResolveDefault returns the initial create-form value, invoking
// DefaultFunc when present.
func (f *Field) ResolveDefault(ctx *Context) any {
	if f.DefaultFunc != nil {
		return f.DefaultFunc(ctx)
	}
	return f.Default
}

func (f *Field) validateSchema() error {
	if f.Name == "" {
		return fmt.Errorf("field without a name")
	}
	switch f.Type {
	case FieldString, FieldSecret, FieldText, FieldSelect, FieldBoolean:
	default:
		return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
	}
	if f.Type != FieldSelect {
		if f.Options != nil || f.OptionsFunc != nil {
			return fmt.Errorf("field %q: options are only valid on select fields", f.Name)
		}
		if f.Nullable {
			return fmt.Errorf("field %q: nullable is only valid on select fields", f.Name)
		}
	}
	if f.Type == FieldSelect && f.Options == nil && f.OptionsFunc == nil {
		return fmt.Errorf("field %q: select field needs options", f.Name)
	}
	for _, v := range []*Validator{f.Validate, f.ValidateCreate, f.ValidateEdit} {
		if v == nil {
			continue
		}
		if v.Func == nil && v.Rules == nil {
			return fmt.Errorf("field %q: empty validator", f.Name)
		}
		if v.Rules != nil {
			if err := v.Rules.compile(); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	}
	return nil
}

func optionValues(options []SelectOption) []string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return values
}

func containsOption(options []SelectOption, value string) bool {
	return slices.Contains(optionValues(options), value)
}
