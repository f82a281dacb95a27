package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"isnad-backend/controllers"
	isnadpackagehandler "isnad-backend/lib/isnad-package"
	"isnad-backend/middleware"
	apimodels "isnad-backend/models/api"
	isnadapimodels "isnad-backend/models/api/isnad"
)

type isnadPackageApiController struct {
	controllers.BaseAPIController
}

func InitIsnadPackageApiRouters(app *fiber.App) {
	controller := isnadPackageApiController{}
	app.Route("package", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Get("eligible_forms", controller.eligibleForms)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("submit", controller.submit)
			idRoute.Put("ceo_review", controller.ceoReview)
			idRoute.Put("minister_review", controller.ministerReview)
		})
	})
}

// @Summary Eligible forms
// @Tags ISNAD package
// @Description Verified forms awaiting bundling into a package
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]isnadapimodels.EligibleFormView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package/eligible_forms [get]
func (c *isnadPackageApiController) eligibleForms(ctx *fiber.Ctx) error {
	resp, err := isnadpackagehandler.Instance.ListEligibleForms()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list eligible forms")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Create package
// @Tags ISNAD package
// @Description Bundles verified forms into a package; membership is frozen afterwards
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 isnadapimodels.PackageCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.PackageView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package [post]
func (c *isnadPackageApiController) create(ctx *fiber.Ctx) error {
	var payload isnadapimodels.PackageCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	userName := middleware.GetUserName(ctx)
	resp, err := isnadpackagehandler.Instance.Create(ctx.UserContext(), userID, userName, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create the package")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Get package
// @Tags ISNAD package
// @Description Package snapshot with member forms
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.PackageView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package/{id} [get]
func (c *isnadPackageApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := isnadpackagehandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load the package")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary List packages
// @Tags ISNAD package
// @Description Paginated packages list
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 isnadapimodels.PackageFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]isnadapimodels.PackageView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package/list [post]
func (c *isnadPackageApiController) list(ctx *fiber.Ctx) error {
	var payload isnadapimodels.PackageFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, rowCount, err := isnadpackagehandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list packages")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(resp, rowCount))
}

// @Summary Submit to CEO
// @Tags ISNAD package
// @Description Sends a draft package into the executive approval chain
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.PackageView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package/{id}/submit [put]
func (c *isnadPackageApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := isnadpackagehandler.Instance.SubmitToCeo(ctx.UserContext(), id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to submit the package")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary CEO review
// @Tags ISNAD package
// @Description CEO verdict on a pending package
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 isnadapimodels.PackageReviewData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.PackageView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package/{id}/ceo_review [put]
func (c *isnadPackageApiController) ceoReview(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload isnadapimodels.PackageReviewData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	userName := middleware.GetUserName(ctx)
	resp, err := isnadpackagehandler.Instance.ReviewCeo(ctx.UserContext(), id, userID, userName, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to apply the CEO review")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Minister review
// @Tags ISNAD package
// @Description Minister verdict; approval makes member assets investable
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 isnadapimodels.PackageReviewData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.PackageView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/package/{id}/minister_review [put]
func (c *isnadPackageApiController) ministerReview(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload isnadapimodels.PackageReviewData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	userName := middleware.GetUserName(ctx)
	resp, err := isnadpackagehandler.Instance.ReviewMinister(ctx.UserContext(), id, userID, userName, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to apply the Minister review")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
