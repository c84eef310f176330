package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zynerotech/apiserver/helpers"
	"github.com/zynerotech/apiserver/logger"
	"github.com/zynerotech/apiserver/response"
)

// Home отвечает приветственным конвертом
func Home(c *fiber.Ctx) error {
	reqCtx := helpers.RequestContextFromFiber(c)
	logger.Info().Msg(helpers.InformationLogMessage("api", "home.go", "Home", reqCtx))

	return response.Write(c, response.Success(response.StatusOK, response.MessageHome, nil))
}
