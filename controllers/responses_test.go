package controllers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

func TestRenderLookupErrorNotFound(t *testing.T) {
	app := fiber.New()
	ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(ctx)

	assert.NoError(t, renderLookupError(ctx, gorm.ErrRecordNotFound))
	assert.Equal(t, 404, ctx.Response().StatusCode())
}

// Any other fetch failure must map to 500 instead of falling through to
// a nil record dereference.
func TestRenderLookupErrorServerFault(t *testing.T) {
	app := fiber.New()
	ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(ctx)

	assert.NoError(t, renderLookupError(ctx, gorm.ErrInvalidDB))
	assert.Equal(t, 500, ctx.Response().StatusCode())
}
