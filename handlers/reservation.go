package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"haram/models"
	"haram/services/haram"
	"haram/services/session"
	"haram/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomDirectory looks up study rooms on the configured backend.
type RoomDirectory interface {
	ListRooms(ctx context.Context) ([]models.RoomResponse, error)
	FindRoom(ctx context.Context, roomSeq int) (*models.RoomResponse, error)
}

// ReservationHandler exposes reservation sessions over HTTP.
type ReservationHandler struct {
	Sessions *session.Service
	Rooms    RoomDirectory
}

func NewReservationHandler(sessions *session.Service, rooms RoomDirectory) *ReservationHandler {
	return &ReservationHandler{Sessions: sessions, Rooms: rooms}
}

// requestContext carries the caller's access token through to the upstream client.
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if token := c.GetString("accessToken"); token != "" {
		ctx = haram.WithAccessToken(ctx, token)
	}
	return ctx
}

// intParam parses an id path parameter. Range is left to the lookup, the same
// as for ids in request bodies.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_"+name, name+" must be an integer")
		return 0, false
	}
	return v, true
}

// ListRoomsHandler returns every study room.
func (h *ReservationHandler) ListRoomsHandler(c *gin.Context) {
	logger := getLogger(c)

	rooms, err := h.Rooms.ListRooms(requestContext(c))
	if err != nil {
		logger.Error("Failed to list rooms", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoomHandler returns the info of one study room.
func (h *ReservationHandler) GetRoomHandler(c *gin.Context) {
	roomSeq, ok := intParam(c, "roomSeq")
	if !ok {
		return
	}

	room, err := h.Rooms.FindRoom(requestContext(c), roomSeq)
	if err != nil {
		getLogger(c).Error("Failed to fetch room", zap.Int("roomSeq", roomSeq), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// OpenSessionHandler starts a reservation session for a room.
func (h *ReservationHandler) OpenSessionHandler(c *gin.Context) {
	roomSeq, ok := intParam(c, "roomSeq")
	if !ok {
		return
	}

	res, err := h.Sessions.Open(requestContext(c), roomSeq)
	if err != nil {
		getLogger(c).Error("Failed to open reservation session", zap.Int("roomSeq", roomSeq), zap.Error(err))
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, res)
}

func (h *ReservationHandler) GetSessionHandler(c *gin.Context) {
	res, err := h.Sessions.Get(requestContext(c), c.Param("sessionID"))
	h.finish(c, res, err)
}

func (h *ReservationHandler) ReloadSessionHandler(c *gin.Context) {
	res, err := h.Sessions.Reload(requestContext(c), c.Param("sessionID"))
	h.finish(c, res, err)
}

func (h *ReservationHandler) SelectDayHandler(c *gin.Context) {
	var input struct {
		CalendarSeq *int `json:"calendarSeq"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.CalendarSeq == nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "calendarSeq is required")
		return
	}

	res, err := h.Sessions.SelectDay(requestContext(c), c.Param("sessionID"), *input.CalendarSeq)
	h.finish(c, res, err)
}

func (h *ReservationHandler) SelectTimeHandler(c *gin.Context) {
	timeSeq, ok := intParam(c, "timeSeq")
	if !ok {
		return
	}
	res, err := h.Sessions.SelectTime(requestContext(c), c.Param("sessionID"), timeSeq)
	h.finish(c, res, err)
}

func (h *ReservationHandler) DeselectTimeHandler(c *gin.Context) {
	timeSeq, ok := intParam(c, "timeSeq")
	if !ok {
		return
	}
	res, err := h.Sessions.DeselectTime(requestContext(c), c.Param("sessionID"), timeSeq)
	h.finish(c, res, err)
}

func (h *ReservationHandler) CheckPolicyHandler(c *gin.Context) {
	policySeq, ok := intParam(c, "policySeq")
	if !ok {
		return
	}

	var input struct {
		IsChecked *bool `json:"isChecked"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.IsChecked == nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "isChecked is required")
		return
	}

	res, err := h.Sessions.CheckPolicy(requestContext(c), c.Param("sessionID"), policySeq, *input.IsChecked)
	h.finish(c, res, err)
}

// UpdateContactHandler sets the reserving user's name and phone number.
// Both fields are optional and trimmed before they reach the session.
func (h *ReservationHandler) UpdateContactHandler(c *gin.Context) {
	var input struct {
		UserName *string `json:"userName"`
		PhoneNum *string `json:"phoneNum"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	update := session.ContactUpdate{}
	if input.UserName != nil {
		name := strings.TrimSpace(*input.UserName)
		update.UserName = &name
	}
	if input.PhoneNum != nil {
		phone := strings.TrimSpace(*input.PhoneNum)
		update.PhoneNum = &phone
	}

	res, err := h.Sessions.UpdateContact(requestContext(c), c.Param("sessionID"), update)
	h.finish(c, res, err)
}

// SubmitHandler books the session's selection.
func (h *ReservationHandler) SubmitHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")

	res, err := h.Sessions.Submit(requestContext(c), sessionID)
	if err == nil && res.Submitted {
		getLogger(c).Info("Study room reservation submitted",
			zap.String("sessionID", sessionID),
			zap.String("userID", c.GetString("userID")),
		)
	}
	h.finish(c, res, err)
}

// CancelSessionHandler drops a session.
func (h *ReservationHandler) CancelSessionHandler(c *gin.Context) {
	if err := h.Sessions.Cancel(requestContext(c), c.Param("sessionID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation session cancelled"})
}

func (h *ReservationHandler) finish(c *gin.Context, res *session.Result, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, http.StatusOK, res)
}
