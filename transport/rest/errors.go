package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError translates domain errors into HTTP verdicts. Anything not
// recognized is an internal error with a generic body.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, connectfour.ErrColumnOutOfRange),
		errors.Is(err, connectfour.ErrColumnFull),
		errors.Is(err, apperror.ErrGameNotActive),
		errors.Is(err, apperror.ErrSecondPlayerMissing),
		errors.Is(err, apperror.ErrSelfJoin):
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrNotHost),
		errors.Is(err, apperror.ErrNotAParticipant):
		return ctx.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrNotFound),
		errors.Is(err, apperror.ErrRoomNotFound),
		errors.Is(err, repository.ErrGameNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrAlreadyExists),
		errors.Is(err, apperror.ErrRoomFull),
		errors.Is(err, apperror.ErrRoomUnavailable):
		return ctx.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
