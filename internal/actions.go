package internal

import "fmt"

// Record is one row of the managed resource, keyed by field name. Actions
// return records to the engine and receive coerced payloads in the same
// shape. Payload values are string, bool or nil depending on field type.
type Record = map[string]any

// Actions holds the host application's data callbacks. The engine never
// touches storage itself; every read and write goes through these.
//
// Which callbacks are required depends on the mount mode: list modes need
// GetList, single-record mode needs GetSingle, and the write callbacks are
// needed only when the corresponding routes are reachable. A reachable
// route whose callback is nil fails the request with a 500.
type Actions struct {
	// GetList returns the records for the list page.
	GetList func(ctx *Context) ([]Record, error)

	// GetSingle returns one record by ID, or nil when it does not exist.
	// In single-record mode the ID is empty.
	GetSingle func(ctx *Context, id string) (Record, error)

	// Create persists a new record from the validated payload. The result
	// feeds the success flash message: a Record is passed to the flash
	// formatter, a string becomes the message verbatim, true and nil
	// suppress the flash.
	Create func(ctx *Context, payload Record) (any, error)

	// Update persists changes to an existing record. In single-record
	// mode the ID is empty. The result feeds the flash like Create.
	Update func(ctx *Context, id string, payload Record) (any, error)

	// Delete removes a record. The result feeds the flash like Create.
	Delete func(ctx *Context, id string) (any, error)
}

func (a *Actions) validateFor(mode Mode) error {
	switch mode {
	case ModeSingleRecord:
		if a.GetSingle == nil {
			return fmt.Errorf("single-record mode requires the GetSingle action")
		}
	default:
		if a.GetList == nil {
			return fmt.Errorf("%s mode requires the GetList action", mode)
		}
		if a.Update != nil && a.GetSingle == nil {
			return fmt.Errorf("the Update action requires the GetSingle action")
		}
	}
	return nil
}
