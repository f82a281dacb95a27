package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"isnad-backend/controllers"
	assethandler "isnad-backend/lib/asset"
	"isnad-backend/middleware"
	apimodels "isnad-backend/models/api"
	isnadapimodels "isnad-backend/models/api/isnad"
)

type assetApiController struct {
	controllers.BaseAPIController
}

func InitAssetApiRouters(app *fiber.App) {
	controller := assetApiController{}
	app.Route("asset", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Get(":id", controller.get)
	})
}

// @Summary Register asset
// @Tags Asset bank
// @Description Registers a real-estate asset in the bank
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 isnadapimodels.AssetData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/asset [post]
func (c *assetApiController) create(ctx *fiber.Ctx) error {
	var payload isnadapimodels.AssetData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	id, err := assethandler.Instance.Create(userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to register the asset")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Get asset
// @Tags Asset bank
// @Description Asset record with its investment status
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.AssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/asset/{id} [get]
func (c *assetApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := assethandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load the asset")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary List assets
// @Tags Asset bank
// @Description Paginated asset-bank list
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 isnadapimodels.AssetFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]isnadapimodels.AssetView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/asset/list [post]
func (c *assetApiController) list(ctx *fiber.Ctx) error {
	var payload isnadapimodels.AssetFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, rowCount, err := assethandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list assets")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(resp, rowCount))
}
