package haram

import (
	"fmt"
	"net/http"
)

type route struct {
	method string
	path   string
}

func routeReservationAvailability(roomSeq int) route {
	return route{method: http.MethodGet, path: fmt.Sprintf("/rothem/v1/rooms/%d/reservations", roomSeq)}
}

func routeReserveStudyRoom(roomSeq int) route {
	return route{method: http.MethodPost, path: fmt.Sprintf("/rothem/v1/rooms/%d/reservations", roomSeq)}
}

func routeRoomInfo(roomSeq int) route {
	return route{method: http.MethodGet, path: fmt.Sprintf("/rothem/v1/rooms/%d", roomSeq)}
}

func routeAllRooms() route {
	return route{method: http.MethodGet, path: "/rothem/admin/rooms"}
}
