package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultToFlash(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	o := mustNormalize(t, opts)
	ctx := newTestContext(o, RouteCreateAction, nil)

	format := func(ctx *Context, record Record) string {
		return "Created " + record["name"].(string)
	}

	t.Run("record goes through the formatter", func(t *testing.T) {
		t.Parallel()
		flash := resultToFlash(ctx, Record{"name": "Axe"}, format)
		require.NotNil(t, flash)
		require.Equal(t, "Created Axe", flash.Message)
	})

	t.Run("string is shown verbatim", func(t *testing.T) {
		t.Parallel()
		flash := resultToFlash(ctx, "All done", format)
		require.NotNil(t, flash)
		require.Equal(t, "All done", flash.Message)
	})

	t.Run("true and nil suppress the flash", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, resultToFlash(ctx, true, format))
		require.Nil(t, resultToFlash(ctx, nil, format))
		require.Nil(t, resultToFlash(ctx, "", format))
	})
}
