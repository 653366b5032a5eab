package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/rs/zerolog/log"
)

// RespondError translates a service error into the wire error shape. Typed
// errors keep their code and message; anything else is logged and masked as
// a generic 500.
func RespondError(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if appErr, ok := apperr.From(err); ok {
		ctx.JSON(status, dto.ErrorResponse{
			Code:    string(appErr.Code),
			Message: appErr.Message,
		})
		return
	}

	log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Code:    "internal",
		Message: "Internal server error.",
	})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    "request.invalid",
		Message: message,
	})
}
