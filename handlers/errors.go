package handlers

import (
	"errors"
	"net/http"

	rothemRepo "haram/database/repository/rothem"
	"haram/services/reservation"
	"haram/services/session"
	"haram/utils"

	"github.com/gin-gonic/gin"
)

// resultResponse is a session result with the command's failure, if any.
type resultResponse struct {
	*session.Result
	Error *reservation.ErrorPayload `json:"error,omitempty"`
}

// statusForCode maps a reservation error code to the HTTP status it is served with.
func statusForCode(code string) int {
	switch code {
	case reservation.CodeMaxReservationCount, reservation.CodeNonConsecutiveReservations:
		// rendered by the client as an alert, the command itself succeeded
		return http.StatusOK
	case reservation.CodeUnknownDay, reservation.CodeUnknownTimeSlot:
		return http.StatusBadRequest
	case reservation.CodeUnauthorized:
		return http.StatusUnauthorized
	case reservation.CodeSlotAlreadyReserved, reservation.CodeIncompleteReservation:
		return http.StatusConflict
	case reservation.CodeNetworkError, reservation.CodeRequestFailed, reservation.CodeDecodingError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondResult(c *gin.Context, okStatus int, res *session.Result) {
	body := resultResponse{Result: res}
	status := okStatus
	if res.Failure != nil {
		body.Error = &reservation.ErrorPayload{Code: res.Failure.Code, Message: res.Failure.Message}
		if s := statusForCode(res.Failure.Code); s != http.StatusOK {
			status = s
		}
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "session_not_found", "reservation session not found or expired")
		return
	case errors.Is(err, rothemRepo.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "room_not_found", err.Error())
		return
	}

	if rErr := reservation.AsReservationError(err); rErr != nil {
		utils.JSONError(c, statusForCode(rErr.Code), rErr.Code, rErr.Message)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred. Please try again later.")
}
