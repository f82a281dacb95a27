package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"isnad-backend/controllers"
	reviewqueuehandler "isnad-backend/lib/review-queue"
	"isnad-backend/models"
	apimodels "isnad-backend/models/api"
	isnadapimodels "isnad-backend/models/api/isnad"
)

type reviewQueueApiController struct {
	controllers.BaseAPIController
}

func InitReviewQueueApiRouters(app *fiber.App) {
	controller := reviewQueueApiController{}
	app.Route("queue", func(router fiber.Router) {
		router.Post(":stage", controller.queueFor)
	})
}

// @Summary Stage queue
// @Tags Review queue
// @Description Pending forms of one stage, worst SLA first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   stage          		path    string  				    	true         "stage"
// @Param	body body	 isnadapimodels.QueueFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]isnadapimodels.QueueItemView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/isnad/queue/{stage} [post]
func (c *reviewQueueApiController) queueFor(ctx *fiber.Ctx) error {
	stage := models.Stage(ctx.Params("stage"))
	if err := stage.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload isnadapimodels.QueueFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, rowCount, err := reviewqueuehandler.Instance.QueueFor(stage, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load the stage queue")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(resp, rowCount))
}
