package internal

import (
	"net/url"
	"strings"
)

// RouteName identifies which handler produced the current request. It
// drives post-write redirect decisions and lets texts and views vary per
// page.
type RouteName string

const (
	RouteIndexPage        RouteName = "indexPage"
	RouteCreatePage       RouteName = "createPage"
	RouteCreateAction     RouteName = "createAction"
	RouteEditPage         RouteName = "editPage"
	RouteEditAction       RouteName = "editAction"
	RouteDetailPage       RouteName = "detailPage"
	RouteDetailEditPage   RouteName = "detailEditPage"
	RouteDetailEditAction RouteName = "detailEditAction"
	RouteDeleteAction     RouteName = "deleteAction"
)

// Routes holds the mount-relative path patterns. Patterns use the chi
// "{id}" placeholder; the URL builders substitute a concrete, path-escaped
// ID. Zero-value entries fall back to the defaults.
type Routes struct {
	IndexPage        string
	CreatePage       string
	CreateAction     string
	EditPage         string
	EditAction       string
	DetailPage       string
	DetailEditPage   string
	DetailEditAction string
	DeleteAction     string
}

func defaultRoutes() Routes {
	return Routes{
		IndexPage:        "/",
		CreatePage:       "/create",
		CreateAction:     "/create",
		EditPage:         "/edit/{id}",
		EditAction:       "/edit/{id}",
		DetailPage:       "/detail/{id}",
		DetailEditPage:   "/detail/{id}/edit",
		DetailEditAction: "/detail/{id}/edit",
		DeleteAction:     "/delete/{id}",
	}
}

// Single-record mode has no IDs in its paths.
func singleRecordRoutes() Routes {
	r := defaultRoutes()
	r.EditPage = "/edit"
	r.EditAction = "/edit"
	return r
}

func (r Routes) applyDefaults(mode Mode) Routes {
	defaults := defaultRoutes()
	if mode == ModeSingleRecord {
		defaults = singleRecordRoutes()
	}
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&r.IndexPage, defaults.IndexPage)
	fill(&r.CreatePage, defaults.CreatePage)
	fill(&r.CreateAction, defaults.CreateAction)
	fill(&r.EditPage, defaults.EditPage)
	fill(&r.EditAction, defaults.EditAction)
	fill(&r.DetailPage, defaults.DetailPage)
	fill(&r.DetailEditPage, defaults.DetailEditPage)
	fill(&r.DetailEditAction, defaults.DetailEditAction)
	fill(&r.DeleteAction, defaults.DeleteAction)
	return r
}

func fillPattern(pattern, id string) string {
	return strings.Replace(pattern, "{id}", url.PathEscape(id), 1)
}

// IndexPageURL returns the list page path relative to the mount.
func (r Routes) IndexPageURL() string { return r.IndexPage }

// CreatePageURL returns the create form path relative to the mount.
func (r Routes) CreatePageURL() string { return r.CreatePage }

// CreateActionURL returns the create submit path relative to the mount.
func (r Routes) CreateActionURL() string { return r.CreateAction }

// EditPageURL returns the edit form path for a record.
func (r Routes) EditPageURL(id string) string { return fillPattern(r.EditPage, id) }

// EditActionURL returns the edit submit path for a record.
func (r Routes) EditActionURL(id string) string { return fillPattern(r.EditAction, id) }

// DetailPageURL returns the detail page path for a record.
func (r Routes) DetailPageURL(id string) string { return fillPattern(r.DetailPage, id) }

// DetailEditPageURL returns the detail-flavored edit form path for a record.
func (r Routes) DetailEditPageURL(id string) string { return fillPattern(r.DetailEditPage, id) }

// DetailEditActionURL returns the detail-flavored edit submit path.
func (r Routes) DetailEditActionURL(id string) string { return fillPattern(r.DetailEditAction, id) }

// DeleteActionURL returns the delete submit path for a record.
func (r Routes) DeleteActionURL(id string) string { return fillPattern(r.DeleteAction, id) }
