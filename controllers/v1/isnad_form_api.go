package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"isnad-backend/controllers"
	isnadformhandler "isnad-backend/lib/isnad-form"
	"isnad-backend/middleware"
	apimodels "isnad-backend/models/api"
	isnadapimodels "isnad-backend/models/api/isnad"
)

type isnadFormApiController struct {
	controllers.BaseAPIController
}

func InitIsnadFormApiRouters(app *fiber.App) {
	controller := isnadFormApiController{}
	app.Route("form", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("history", controller.history)
			idRoute.Put("submit", controller.submit)
			idRoute.Put("section", controller.saveSection)
			idRoute.Put("review", controller.review)
			idRoute.Put("cancel", controller.cancel)
		})
	})
}

// @Summary Create form
// @Tags ISNAD form
// @Description Opens a new assessment form for an asset
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 isnadapimodels.FormCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form [post]
func (c *isnadFormApiController) create(ctx *fiber.Ctx) error {
	var payload isnadapimodels.FormCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	userName := middleware.GetUserName(ctx)
	resp, err := isnadformhandler.Instance.Create(ctx.UserContext(), userID, userName, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create the form")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Get form
// @Tags ISNAD form
// @Description Form snapshot with derived SLA fields
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/{id} [get]
func (c *isnadFormApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := isnadformhandler.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load the form")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary List forms
// @Tags ISNAD form
// @Description Paginated forms list with status, region and SLA filters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 isnadapimodels.FormFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/list [post]
func (c *isnadFormApiController) list(ctx *fiber.Ctx) error {
	var payload isnadapimodels.FormFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, rowCount, err := isnadformhandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list forms")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(resp, rowCount))
}

// @Summary Submit form
// @Tags ISNAD form
// @Description Sends a draft or returned form into verification
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/{id}/submit [put]
func (c *isnadFormApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := isnadformhandler.Instance.Submit(ctx.UserContext(), id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to submit the form")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Save section
// @Tags ISNAD form
// @Description Saves the section owned by the current stage; completing saves stamp completion
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 isnadapimodels.SectionSaveData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/{id}/section [put]
func (c *isnadFormApiController) saveSection(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload isnadapimodels.SectionSaveData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	userName := middleware.GetUserName(ctx)
	resp, err := isnadformhandler.Instance.SaveSection(ctx.UserContext(), id, userID, userName, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to save the section")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Review form
// @Tags ISNAD form
// @Description Stage reviewer verdict: approve, reject, return or request_info
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 isnadapimodels.ReviewData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/{id}/review [put]
func (c *isnadFormApiController) review(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload isnadapimodels.ReviewData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	by := isnadformhandler.Actor{
		ID:         middleware.GetUserID(ctx),
		Name:       middleware.GetUserName(ctx),
		Department: middleware.GetUserDepartment(ctx),
	}
	resp, err := isnadformhandler.Instance.Review(ctx.UserContext(), id, by, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to apply the review action")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Cancel form
// @Tags ISNAD form
// @Description Cancels a form that has not yet passed verification
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 isnadapimodels.CancelData	true	"request body"
// @Success 200 {object} apimodels.Response{data=isnadapimodels.FormView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/{id}/cancel [put]
func (c *isnadFormApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload isnadapimodels.CancelData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	resp, err := isnadformhandler.Instance.Cancel(ctx.UserContext(), id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to cancel the form")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Approval history
// @Tags ISNAD form
// @Description Append-only audit log of reviewer actions on the form
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]isnadapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/form/{id}/history [get]
func (c *isnadFormApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := isnadformhandler.Instance.ApprovalHistory(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load the approval history")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
