package models

import "time"

// RoomResponse describes a Rothem study room.
type RoomResponse struct {
	RoomSeq         int    `bson:"roomSeq" json:"roomSeq"`
	RoomTitle       string `bson:"roomTitle" json:"roomTitle"`
	RoomExplanation string `bson:"roomExplanation" json:"roomExplanation"`
	ThumbnailPath   string `bson:"thumbnailPath,omitempty" json:"thumbnailPath,omitempty"`
	PeopleCount     int    `bson:"peopleCount" json:"peopleCount"`
}

// TimeResponse is a bookable time unit inside a calendar day.
type TimeResponse struct {
	TimeSeq    int    `bson:"timeSeq" json:"timeSeq"`
	Hour       string `bson:"hour" json:"hour"`             // e.g. "09:00"
	Meridiem   string `bson:"meridiem" json:"meridiem"`     // "am" or "pm"
	IsReserved bool   `bson:"isReserved" json:"isReserved"` // owned by the server
}

// CalendarResponse is one day of a room's schedule.
type CalendarResponse struct {
	CalendarSeq int            `bson:"calendarSeq" json:"calendarSeq"`
	Day         string         `bson:"day" json:"day"`   // e.g. "MON"
	Date        string         `bson:"date" json:"date"` // e.g. "2023-11-20"
	IsAvailable bool           `bson:"isAvailable" json:"isAvailable"`
	Times       []TimeResponse `bson:"times,omitempty" json:"times,omitempty"`
}

// PolicyResponse is a terms-of-use clause the user must agree to.
type PolicyResponse struct {
	PolicySeq int    `bson:"policySeq" json:"policySeq"`
	Title     string `bson:"title" json:"title"`
	Content   string `bson:"content" json:"content"`
}

// ReservationAvailability is the one-shot payload used to populate a reservation session.
type ReservationAvailability struct {
	RoomResponse      RoomResponse       `bson:"roomResponse" json:"roomResponse"`
	CalendarResponses []CalendarResponse `bson:"calendarResponses" json:"calendarResponses"`
	PolicyResponses   []PolicyResponse   `bson:"policyResponses" json:"policyResponses"`
}

type ReservationPolicyRequest struct {
	PolicySeq     int    `bson:"policySeq" json:"policySeq"`
	PolicyAgreeYn string `bson:"policyAgreeYn" json:"policyAgreeYn"`
}

type TimeRequest struct {
	TimeSeq int `bson:"timeSeq" json:"timeSeq"`
}

// ReserveStudyRoomRequest is the booking payload sent to the reservation backend.
type ReserveStudyRoomRequest struct {
	UserName                  string                     `json:"userName"`
	PhoneNum                  string                     `json:"phoneNum"`
	CalendarSeq               int                        `json:"calendarSeq"`
	ReservationPolicyRequests []ReservationPolicyRequest `json:"reservationPolicyRequests"`
	TimeRequests              []TimeRequest              `json:"timeRequests"`
}

// RothemReservation is a persisted, accepted reservation.
type RothemReservation struct {
	ID          string    `bson:"id" json:"id"`
	RoomSeq     int       `bson:"roomSeq" json:"roomSeq"`
	CalendarSeq int       `bson:"calendarSeq" json:"calendarSeq"`
	TimeSeqs    []int     `bson:"timeSeqs" json:"timeSeqs"`
	PolicySeqs  []int     `bson:"policySeqs" json:"policySeqs"`
	UserName    string    `bson:"userName" json:"userName"`
	PhoneNum    string    `bson:"phoneNum" json:"phoneNum"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
