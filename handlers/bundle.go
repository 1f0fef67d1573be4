package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Reservation *ReservationHandler

	HealthHandler gin.HandlerFunc
}

func NewHandlerBundle(reservation *ReservationHandler) *HandlerBundle {
	return &HandlerBundle{
		Reservation:   reservation,
		HealthHandler: HealthHandler,
	}
}
