package internal

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
)

// Views are the page renderers. Each returns a full HTML document; the
// engine never post-processes the markup, so hosts can swap any renderer
// for their own. Unset entries fall back to the built-in templates.
type Views struct {
	// ListPage renders the record table.
	ListPage func(ctx *Context, records []Record) (string, error)

	// EditPage renders the create and edit form. The record is nil when
	// creating.
	EditPage func(ctx *Context, record Record) (string, error)

	// DetailPage renders a single record read-only.
	DetailPage func(ctx *Context, record Record) (string, error)

	// ErrorPage renders any failed request. It must not fail itself.
	ErrorPage func(ctx *Context, err error) string
}

func (v Views) applyDefaults() Views {
	if v.ListPage == nil {
		v.ListPage = defaultListPage
	}
	if v.EditPage == nil {
		v.EditPage = defaultEditPage
	}
	if v.DetailPage == nil {
		v.DetailPage = defaultDetailPage
	}
	if v.ErrorPage == nil {
		v.ErrorPage = defaultErrorPage
	}
	return v
}

var markdown = goldmark.New()

// renderHelp converts markdown help text to HTML. The result is trusted
// because it comes from the host's schema, not from visitors.
func renderHelp(text string) template.HTML {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

// displayValue formats a record value for read-only rendering.
func displayValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// isTruthy mirrors form semantics: nil, false, "" and zero are unchecked.
func isTruthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// formActionURL returns the submit target matching the form being shown.
func formActionURL(ctx *Context) string {
	routes := ctx.Routes()
	switch {
	case ctx.Creating():
		return ctx.URL(routes.CreateActionURL())
	case ctx.Mode() == ModeSingleRecord:
		return ctx.URL(routes.EditActionURL(""))
	case ctx.RouteName() == RouteDetailEditPage || ctx.RouteName() == RouteDetailEditAction:
		return ctx.URL(routes.DetailEditActionURL(ctx.IDParam()))
	default:
		return ctx.URL(routes.EditActionURL(ctx.IDParam()))
	}
}

type pageShell struct {
	Title        string
	FlashMessage string
	Body         template.HTML
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type formFieldView struct {
	Name       string
	Type       string
	Title      string
	Value      string
	Checked    bool
	Options    []optionView
	NullOption *optionView
	Custom     template.HTML
	Help       template.HTML
	Faults     []string
}

type formView struct {
	Action        string
	CSRFField     string
	CSRFToken     string
	ErrorSummary  []string
	Fields        []formFieldView
	SubmitLabel   string
	CancelURL     string
	ShowCancelURL bool
}

type listRowView struct {
	Cells     []template.HTML
	DetailURL string
	EditURL   string
	DeleteURL string
}

type listView struct {
	Columns     []string
	Rows        []listRowView
	ShowDetail  bool
	ShowActions bool
	CreateURL   string
	CreateLabel string
	DeleteLabel string
	CSRFField   string
	CSRFToken   string
}

type detailFieldView struct {
	Title string
	Value template.HTML
}

type detailView struct {
	Fields      []detailFieldView
	EditURL     string
	DeleteURL   string
	IndexURL    string
	ShowDelete  bool
	DeleteLabel string
	CSRFField   string
	CSRFToken   string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .FlashMessage}}<p class="flash">{{.FlashMessage}}</p>{{end}}
{{.Body}}
</body>
</html>
`))

var listTmpl = template.Must(template.New("list").Parse(`{{if .CreateURL}}<p><a href="{{.CreateURL}}">{{.CreateLabel}}</a></p>{{end}}
<table>
<thead>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}{{if or .ShowDetail .ShowActions}}<th></th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>
{{range .Cells}}<td>{{.}}</td>
{{end}}{{if $.ShowDetail}}<td><a href="{{.DetailURL}}">View</a></td>
{{else if $.ShowActions}}<td>
<a href="{{.EditURL}}">Edit</a>
<form method="post" action="{{.DeleteURL}}">
{{if $.CSRFToken}}<input type="hidden" name="{{$.CSRFField}}" value="{{$.CSRFToken}}">{{end}}
<button type="submit">{{$.DeleteLabel}}</button>
</form>
</td>
{{end}}</tr>
{{end}}</tbody>
</table>
`))

var formTmpl = template.Must(template.New("form").Parse(`{{if .ErrorSummary}}<ul class="errors">
{{range .ErrorSummary}}<li>{{.}}</li>
{{end}}</ul>
{{end}}<form method="post" action="{{.Action}}">
{{if .CSRFToken}}<input type="hidden" name="{{.CSRFField}}" value="{{.CSRFToken}}">
{{end}}{{range .Fields}}<div class="field">
<label for="{{.Name}}">{{.Title}}</label>
{{if .Custom}}{{.Custom}}
{{else if eq .Type "text"}}<textarea id="{{.Name}}" name="{{.Name}}">{{.Value}}</textarea>
{{else if eq .Type "select"}}<select id="{{.Name}}" name="{{.Name}}">
{{with .NullOption}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{end}}{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{end}}</select>
{{else if eq .Type "boolean"}}<input type="checkbox" id="{{.Name}}" name="{{.Name}}" value="true"{{if .Checked}} checked{{end}}>
{{else if eq .Type "secret"}}<input type="password" id="{{.Name}}" name="{{.Name}}" value="{{.Value}}">
{{else}}<input type="text" id="{{.Name}}" name="{{.Name}}" value="{{.Value}}">
{{end}}{{range .Faults}}<p class="field-error">{{.}}</p>
{{end}}{{if .Help}}<div class="help">{{.Help}}</div>
{{end}}</div>
{{end}}<button type="submit">{{.SubmitLabel}}</button>
{{if .ShowCancelURL}}<a href="{{.CancelURL}}">Cancel</a>{{end}}
</form>
`))

var detailTmpl = template.Must(template.New("detail").Parse(`<dl>
{{range .Fields}}<dt>{{.Title}}</dt>
<dd>{{.Value}}</dd>
{{end}}</dl>
<p>
<a href="{{.EditURL}}">Edit</a>
<a href="{{.IndexURL}}">Back</a>
</p>
{{if .ShowDelete}}<form method="post" action="{{.DeleteURL}}">
{{if .CSRFToken}}<input type="hidden" name="{{.CSRFField}}" value="{{.CSRFToken}}">{{end}}
<button type="submit">{{.DeleteLabel}}</button>
</form>
{{end}}`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Error</title>
</head>
<body>
<h1>Error {{.Code}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

func renderPage(ctx *Context, title string, body template.HTML) (string, error) {
	shell := pageShell{Title: title, Body: body}
	if flash := ctx.Flash(); flash != nil {
		shell.FlashMessage = flash.Message
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, shell); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

func defaultListPage(ctx *Context, records []Record) (string, error) {
	routes := ctx.Routes()
	vm := listView{
		ShowDetail:  ctx.Mode() == ModeDetailList,
		ShowActions: ctx.Mode() == ModeSimpleList,
		CreateLabel: ctx.Texts().CreateLink.Resolve(ctx),
		DeleteLabel: ctx.Texts().DeleteLabel.Resolve(ctx),
		CSRFField:   ctx.Tweaks().CSRFFieldName,
		CSRFToken:   ctx.CSRFToken(),
	}
	if ctx.opts.Actions.Create != nil {
		vm.CreateURL = ctx.URL(routes.CreatePageURL())
	}

	var columns []*Field
	for _, field := range ctx.Fields() {
		if field.HideInList {
			continue
		}
		columns = append(columns, field)
		vm.Columns = append(vm.Columns, field.DisplayTitle())
	}

	for i, record := range records {
		row := listRowView{}
		for _, field := range columns {
			if field.ListView != nil {
				row.Cells = append(row.Cells, template.HTML(field.ListView(ctx, record, i)))
				continue
			}
			cell := template.HTMLEscapeString(displayValue(record[field.Name]))
			row.Cells = append(row.Cells, template.HTML(cell))
		}
		id := ctx.RecordID(record)
		row.DetailURL = ctx.URL(routes.DetailPageURL(id))
		row.EditURL = ctx.URL(routes.EditPageURL(id))
		row.DeleteURL = ctx.URL(routes.DeleteActionURL(id))
		vm.Rows = append(vm.Rows, row)
	}

	var buf bytes.Buffer
	if err := listTmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("render list: %w", err)
	}
	return renderPage(ctx, ctx.Texts().ListTitle.Resolve(ctx), template.HTML(buf.String()))
}

func defaultEditPage(ctx *Context, record Record) (string, error) {
	creating := ctx.Creating()
	flash := ctx.Flash()

	var verr *ValidationError
	if flash != nil {
		verr = flash.Error
	}

	vm := formView{
		Action:      formActionURL(ctx),
		CSRFField:   ctx.Tweaks().CSRFFieldName,
		CSRFToken:   ctx.CSRFToken(),
		SubmitLabel: ctx.Texts().SubmitLabel.Resolve(ctx),
	}
	if ctx.Mode() != ModeSingleRecord {
		vm.CancelURL = ctx.URL(ctx.Routes().IndexPageURL())
		vm.ShowCancelURL = true
		if sess := ctx.Session(); sess != nil && sess.EditBackURL != "" && !creating {
			vm.CancelURL = sess.EditBackURL
		}
	}
	if verr != nil && !ctx.Tweaks().HideValidationErrorSummary {
		for _, fault := range verr.Faults {
			vm.ErrorSummary = append(vm.ErrorSummary, fault.FullMessage())
		}
	}

	for _, field := range ctx.Fields() {
		if !field.EditableFor(creating) {
			continue
		}

		// Re-submitted values win over stored ones, stored ones over
		// schema defaults.
		var value any
		switch {
		case verr != nil:
			value = verr.Payload[field.Name]
		case record != nil:
			value = record[field.Name]
		case creating:
			value = field.ResolveDefault(ctx)
		}

		fv := formFieldView{
			Name:    field.Name,
			Type:    string(field.Type),
			Title:   field.DisplayTitle(),
			Value:   displayValue(value),
			Checked: field.Type == FieldBoolean && isTruthy(value),
			Help:    renderHelp(field.HelpText),
		}
		if field.EditView != nil {
			fv.Custom = template.HTML(field.EditView(ctx, record, -1))
		}
		if verr != nil {
			for _, fault := range verr.ByFieldName[field.Name] {
				fv.Faults = append(fv.Faults, fault.FullMessage())
			}
		}
		if field.Type == FieldSelect {
			selected := displayValue(value)
			if field.Nullable {
				fv.NullOption = &optionView{
					Label:    field.NullLabel,
					Selected: value == nil || selected == "",
				}
			}
			for _, opt := range field.ResolveOptions(ctx) {
				fv.Options = append(fv.Options, optionView{
					Value:    opt.Value,
					Label:    opt.DisplayLabel(),
					Selected: opt.Value == selected && value != nil,
				})
			}
		}
		vm.Fields = append(vm.Fields, fv)
	}

	var buf bytes.Buffer
	if err := formTmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("render form: %w", err)
	}

	title := ctx.Texts().EditTitle.Resolve(ctx)
	if creating {
		title = ctx.Texts().CreateTitle.Resolve(ctx)
	}
	return renderPage(ctx, title, template.HTML(buf.String()))
}

func defaultDetailPage(ctx *Context, record Record) (string, error) {
	routes := ctx.Routes()
	id := ctx.RecordID(record)

	vm := detailView{
		EditURL:     ctx.URL(routes.DetailEditPageURL(id)),
		DeleteURL:   ctx.URL(routes.DeleteActionURL(id)),
		IndexURL:    ctx.URL(routes.IndexPageURL()),
		ShowDelete:  ctx.Mode() != ModeSingleRecord && ctx.opts.Actions.Delete != nil,
		DeleteLabel: ctx.Texts().DeleteLabel.Resolve(ctx),
		CSRFField:   ctx.Tweaks().CSRFFieldName,
		CSRFToken:   ctx.CSRFToken(),
	}
	if ctx.Mode() == ModeSingleRecord {
		vm.EditURL = ctx.URL(routes.EditPageURL(""))
	}

	for _, field := range ctx.Fields() {
		if field.HideInDetail {
			continue
		}
		var value template.HTML
		if field.DetailView != nil {
			value = template.HTML(field.DetailView(ctx, record, -1))
		} else {
			value = template.HTML(template.HTMLEscapeString(displayValue(record[field.Name])))
		}
		vm.Fields = append(vm.Fields, detailFieldView{
			Title: field.DisplayTitle(),
			Value: value,
		})
	}

	var buf bytes.Buffer
	if err := detailTmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("render detail: %w", err)
	}
	return renderPage(ctx, ctx.Texts().DetailTitle.Resolve(ctx), template.HTML(buf.String()))
}

func defaultErrorPage(ctx *Context, err error) string {
	code := 500
	message := "Internal error"
	if e := AsError(err); e != nil {
		code = e.Code
		message = e.Message
	} else if ve := AsValidationError(err); ve != nil {
		code = ve.StatusCode()
		message = ve.Error()
	} else if err != nil {
		message = err.Error()
	}

	var buf bytes.Buffer
	if execErr := errorTmpl.Execute(&buf, struct {
		Code    int
		Message string
	}{code, message}); execErr != nil {
		return "<!DOCTYPE html><html><body><h1>Error</h1></body></html>"
	}
	return buf.String()
}
