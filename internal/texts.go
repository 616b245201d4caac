package internal

import "fmt"

// Text is a display string that is either a literal or computed per
// request. The zero value is empty and reports IsZero, which lets the
// defaults kick in.
type Text struct {
	value string
	fn    func(ctx *Context) string
}

// T makes a literal Text.
func T(s string) Text { return Text{value: s} }

// TFunc makes a per-request computed Text.
func TFunc(fn func(ctx *Context) string) Text { return Text{fn: fn} }

// Resolve returns the literal or invokes the compute function.
func (t Text) Resolve(ctx *Context) string {
	if t.fn != nil {
		return t.fn(ctx)
	}
	return t.value
}

func (t Text) IsZero() bool { return t.value == "" && t.fn == nil }

// Texts collects the user-facing strings of the generated pages. Unset
// entries fall back to defaults derived from the resource name.
type Texts struct {
	// ListTitle is the heading of the list page.
	ListTitle Text

	// CreateTitle is the heading of the create form.
	CreateTitle Text

	// EditTitle is the heading of the edit form.
	EditTitle Text

	// DetailTitle is the heading of the detail page.
	DetailTitle Text

	// CreateLink is the label of the new-record link on the list page.
	CreateLink Text

	// SubmitLabel is the label of form submit buttons.
	SubmitLabel Text

	// DeleteLabel is the label of delete buttons.
	DeleteLabel Text

	// FlashRecordCreated formats the success flash after a create. The
	// record is the one returned by the Create action.
	FlashRecordCreated func(ctx *Context, record Record) string

	// FlashRecordUpdated formats the success flash after an update.
	FlashRecordUpdated func(ctx *Context, record Record) string

	// FlashRecordDeleted formats the success flash after a delete.
	FlashRecordDeleted func(ctx *Context, record Record) string

	// ErrorNotFound formats the 404 message for a missing record ID.
	ErrorNotFound func(ctx *Context, id string) string
}

func (t Texts) applyDefaults(name string) Texts {
	singular := Capitalize(Deslugify(name))
	plural := Capitalize(Pluralize(Deslugify(name)))

	if t.ListTitle.IsZero() {
		t.ListTitle = T(plural)
	}
	if t.CreateTitle.IsZero() {
		t.CreateTitle = T("New " + Deslugify(name))
	}
	if t.EditTitle.IsZero() {
		t.EditTitle = T("Edit " + Deslugify(name))
	}
	if t.DetailTitle.IsZero() {
		t.DetailTitle = T(singular)
	}
	if t.CreateLink.IsZero() {
		t.CreateLink = T("New " + Deslugify(name))
	}
	if t.SubmitLabel.IsZero() {
		t.SubmitLabel = T("Save")
	}
	if t.DeleteLabel.IsZero() {
		t.DeleteLabel = T("Delete")
	}
	if t.FlashRecordCreated == nil {
		t.FlashRecordCreated = func(ctx *Context, record Record) string {
			return fmt.Sprintf("%s created", singular)
		}
	}
	if t.FlashRecordUpdated == nil {
		t.FlashRecordUpdated = func(ctx *Context, record Record) string {
			return fmt.Sprintf("%s updated", singular)
		}
	}
	if t.FlashRecordDeleted == nil {
		t.FlashRecordDeleted = func(ctx *Context, record Record) string {
			return fmt.Sprintf("%s deleted", singular)
		}
	}
	if t.ErrorNotFound == nil {
		t.ErrorNotFound = func(ctx *Context, id string) string {
			return fmt.Sprintf("%s %q not found", singular, id)
		}
	}
	return t
}
