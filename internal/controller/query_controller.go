package controller

import (
	"encoding/base64"
	"io"
	"strings"

	"pillsee-be/internal/dto"
	"pillsee-be/internal/pkg/serverutils"
	"pillsee-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router, textLimiter, imageLimiter fiber.Handler)
	SubmitText(ctx *fiber.Ctx) error
	SubmitImage(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router, textLimiter, imageLimiter fiber.Handler) {
	h := r.Group("/query/v1")
	h.Post("text", textLimiter, c.SubmitText)
	h.Post("image", imageLimiter, c.SubmitImage)
}

func (c *queryController) SubmitText(ctx *fiber.Ctx) error {
	var req dto.TextQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.SubmitText(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success text query", res))
}

func (c *queryController) SubmitImage(ctx *fiber.Ctx) error {
	req, err := c.parseImageRequest(ctx)
	if err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.SubmitImage(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success image query", res))
}

// parseImageRequest accepts either a JSON body with a base64 image or a
// multipart upload with an "image" file field.
func (c *queryController) parseImageRequest(ctx *fiber.Ctx) (*dto.ImageQueryRequest, error) {
	contentType := string(ctx.Request().Header.ContentType())
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		var req dto.ImageQueryRequest
		if err := ctx.BodyParser(&req); err != nil {
			return nil, serverutils.BadRequest("invalid request body")
		}
		return &req, nil
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, serverutils.BadRequest("missing 'image' file field")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, serverutils.BadRequest("unreadable image upload")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, serverutils.BadRequest("unreadable image upload")
	}

	return &dto.ImageQueryRequest{
		Image:     base64.StdEncoding.EncodeToString(raw),
		SessionId: ctx.FormValue("session_id"),
	}, nil
}
