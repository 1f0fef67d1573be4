package reservation

import (
	"context"

	"haram/models"
)

// Repository is the reservation backend a Selector talks to.
type Repository interface {
	FetchReservationAvailability(ctx context.Context, roomSeq int) (*models.ReservationAvailability, error)
	SubmitReservation(ctx context.Context, roomSeq int, req models.ReserveStudyRoomRequest) error
}
