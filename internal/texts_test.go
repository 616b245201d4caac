package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	o := mustNormalize(t, opts)
	ctx := newTestContext(o, RouteIndexPage, nil)

	require.True(t, Text{}.IsZero())
	require.Equal(t, "hello", T("hello").Resolve(ctx))

	dynamic := TFunc(func(ctx *Context) string { return "for " + ctx.Name() })
	require.False(t, dynamic.IsZero())
	require.Equal(t, "for product", dynamic.Resolve(ctx))
}

func TestTexts_Defaults(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Name = "pay_slip"
	o := mustNormalize(t, opts)
	ctx := newTestContext(o, RouteIndexPage, nil)

	require.Equal(t, "Pay slips", o.Texts.ListTitle.Resolve(ctx))
	require.Equal(t, "New pay slip", o.Texts.CreateTitle.Resolve(ctx))
	require.Equal(t, "Edit pay slip", o.Texts.EditTitle.Resolve(ctx))
	require.Equal(t, "Pay slip", o.Texts.DetailTitle.Resolve(ctx))
	require.Equal(t, "Pay slip created", o.Texts.FlashRecordCreated(ctx, Record{}))
	require.Equal(t, "Pay slip deleted", o.Texts.FlashRecordDeleted(ctx, Record{}))
	require.Equal(t, `Pay slip "9" not found`, o.Texts.ErrorNotFound(ctx, "9"))
}

func TestTexts_Overrides(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Texts = Texts{
		ListTitle: T("Inventory"),
		FlashRecordCreated: func(ctx *Context, record Record) string {
			return "Added " + record["name"].(string)
		},
	}
	o := mustNormalize(t, opts)
	ctx := newTestContext(o, RouteIndexPage, nil)

	require.Equal(t, "Inventory", o.Texts.ListTitle.Resolve(ctx))
	require.Equal(t, "Added Axe", o.Texts.FlashRecordCreated(ctx, Record{"name": "Axe"}))
	// Unset entries still get defaults.
	require.Equal(t, "Product updated", o.Texts.FlashRecordUpdated(ctx, Record{}))
}
