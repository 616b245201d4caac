// Package crudkit generates a mountable CRUD admin UI from a field
// schema and a handful of data callbacks.
//
// The host application describes a resource once (its fields, how to
// list it, how to write it) and gets back a plain http.Handler serving
// list, detail, create, edit and delete pages. The engine owns the
// request lifecycle: it coerces and validates form payloads, guards
// mutating requests with CSRF tokens, and carries success messages and
// validation faults across redirects with single-use server-side flash
// entries.
//
// # Quick Start
//
//	admin, err := crudkit.New(crudkit.Options{
//	    Name:     "user",
//	    BasePath: "/admin/users",
//	    Fields: []crudkit.Field{
//	        {Name: "id", ReadOnly: true, HideInList: true},
//	        {Name: "name", Validate: &crudkit.Validator{Rules: &crudkit.Rules{Presence: true}}},
//	        {Name: "role", Type: crudkit.FieldSelect, Options: []crudkit.SelectOption{
//	            {Value: "admin"}, {Value: "member"},
//	        }},
//	    },
//	    Actions: crudkit.Actions{
//	        GetList:   store.List,
//	        GetSingle: store.Get,
//	        Create:    store.Create,
//	        Update:    store.Update,
//	        Delete:    store.Delete,
//	    },
//	})
//
// # Modes
//
// Three layouts cover the common shapes: ModeDetailList (list plus
// per-record detail pages, the default), ModeSimpleList (flat list with
// inline edit and delete) and ModeSingleRecord (one settings-style
// record with just a view and an edit form).
//
// # Validation
//
// Each field takes validators as Go callbacks or declarative Rules
// (presence, length bounds, patterns, expr-lang expressions). Failures
// redirect back to the form with the faults and the attempted payload,
// so nothing the visitor typed is lost.
//
// # State
//
// Flash, CSRF and optional session state live server side in bounded
// in-memory stores, correlated to the visitor by random cookie tokens.
// Nothing but opaque tokens ever travels in cookies.
package crudkit
