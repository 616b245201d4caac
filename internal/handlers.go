package internal

import (
	"errors"
	"net/http"
)

// handlerFunc is the shape of every page handler. The returned Response
// is rendered by the mount's wrapper, which also owns flash persistence
// and the error tail.
type handlerFunc func(ctx *Context) (Response, error)

func indexPage(ctx *Context) (Response, error) {
	if ctx.Mode() == ModeSingleRecord {
		record, err := ctx.opts.Actions.GetSingle(ctx, "")
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, NewError(http.StatusInternalServerError, "Invalid data")
		}
		body, err := ctx.opts.Views.DetailPage(ctx, record)
		if err != nil {
			return nil, err
		}
		return HTML(body), nil
	}

	records, err := ctx.opts.Actions.GetList(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, NewError(http.StatusInternalServerError, "Invalid data")
	}
	body, err := ctx.opts.Views.ListPage(ctx, records)
	if err != nil {
		return nil, err
	}
	return HTML(body), nil
}

func createPage(ctx *Context) (Response, error) {
	body, err := ctx.opts.Views.EditPage(ctx, nil)
	if err != nil {
		return nil, err
	}
	return HTML(body), nil
}

func createAction(ctx *Context) (Response, error) {
	if ctx.opts.Actions.Create == nil {
		return nil, NewActionNotSupportedError("create")
	}

	payload, err := coerceAndValidate(ctx)
	if err != nil {
		return validationRedirect(ctx, err)
	}

	result, err := ctx.opts.Actions.Create(ctx, payload)
	if err != nil {
		return validationRedirect(ctx, err)
	}

	resp := RedirectResponse{
		Location: ctx.URL(ctx.Routes().IndexPageURL()),
		Flash:    resultToFlash(ctx, result, ctx.Texts().FlashRecordCreated),
	}
	return resp, nil
}

func editPage(ctx *Context) (Response, error) {
	if ctx.opts.Actions.GetSingle == nil {
		return nil, NewActionNotSupportedError("getSingle")
	}
	record, err := ctx.opts.Actions.GetSingle(ctx, ctx.IDParam())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, NewNotFoundError(ctx.Texts().ErrorNotFound(ctx, ctx.IDParam()))
	}
	body, err := ctx.opts.Views.EditPage(ctx, record)
	if err != nil {
		return nil, err
	}
	return HTML(body), nil
}

func editAction(ctx *Context) (Response, error) {
	if ctx.opts.Actions.Update == nil {
		return nil, NewActionNotSupportedError("update")
	}

	payload, err := coerceAndValidate(ctx)
	if err != nil {
		return validationRedirect(ctx, err)
	}

	result, err := ctx.opts.Actions.Update(ctx, ctx.IDParam(), payload)
	if err != nil {
		return validationRedirect(ctx, err)
	}

	// After a detail-flavored edit the visitor goes back to the detail
	// page; everyone else lands on the index (which in single-record
	// mode shows the record itself).
	location := ctx.URL(ctx.Routes().IndexPageURL())
	if ctx.RouteName() == RouteDetailEditAction {
		location = ctx.URL(ctx.Routes().DetailPageURL(ctx.IDParam()))
	}

	resp := RedirectResponse{
		Location: location,
		Flash:    resultToFlash(ctx, result, ctx.Texts().FlashRecordUpdated),
	}
	return resp, nil
}

func detailPage(ctx *Context) (Response, error) {
	if ctx.opts.Actions.GetSingle == nil {
		return nil, NewActionNotSupportedError("getSingle")
	}
	record, err := ctx.opts.Actions.GetSingle(ctx, ctx.IDParam())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, NewNotFoundError(ctx.Texts().ErrorNotFound(ctx, ctx.IDParam()))
	}
	body, err := ctx.opts.Views.DetailPage(ctx, record)
	if err != nil {
		return nil, err
	}
	return HTML(body), nil
}

func deleteAction(ctx *Context) (Response, error) {
	if ctx.opts.Actions.Delete == nil {
		return nil, NewActionNotSupportedError("delete")
	}

	result, err := ctx.opts.Actions.Delete(ctx, ctx.IDParam())
	if err != nil {
		return nil, err
	}

	resp := RedirectResponse{
		Location: ctx.URL(ctx.Routes().IndexPageURL()),
		Flash:    resultToFlash(ctx, result, ctx.Texts().FlashRecordDeleted),
	}
	return resp, nil
}

// validationRedirect sends the visitor back to the form they submitted,
// parking the faults and the attempted payload in a flash. Non-validation
// errors pass through to the error tail.
func validationRedirect(ctx *Context, err error) (Response, error) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	return RedirectResponse{
		Location: ctx.URL(formPageURL(ctx)),
		Flash:    &Flash{Error: ve},
	}, nil
}

// formPageURL returns the form page matching the action being handled.
func formPageURL(ctx *Context) string {
	routes := ctx.Routes()
	switch {
	case ctx.Creating():
		return routes.CreatePageURL()
	case ctx.Mode() == ModeSingleRecord:
		return routes.EditPageURL("")
	case ctx.RouteName() == RouteDetailEditAction:
		return routes.DetailEditPageURL(ctx.IDParam())
	default:
		return routes.EditPageURL(ctx.IDParam())
	}
}
