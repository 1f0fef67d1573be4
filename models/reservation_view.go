package models

// SelectedDayItem is the day-selector view state.
type SelectedDayItem struct {
	CalendarSeq int    `json:"calendarSeq"`
	Day         string `json:"day"`
	Date        string `json:"date"`
	IsAvailable bool   `json:"isAvailable"`
}

// SelectedTimeItem is the time-slot view state.
type SelectedTimeItem struct {
	TimeSeq        int    `json:"timeSeq"`
	Hour           string `json:"hour"`
	Meridiem       string `json:"meridiem"`
	IsReserved     bool   `json:"isReserved"`
	IsTimeSelected bool   `json:"isTimeSelected"`
}

// PolicyItem is the terms-of-use checkbox view state.
type PolicyItem struct {
	PolicySeq int    `json:"policySeq"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsChecked bool   `json:"isChecked"`
}

// ReservationView is a read-only rendering of a reservation session.
type ReservationView struct {
	RoomSeq                      int                `json:"roomSeq"`
	Room                         *RoomResponse      `json:"room,omitempty"`
	Days                         []SelectedDayItem  `json:"days"`
	SelectedCalendarSeq          int                `json:"selectedCalendarSeq,omitempty"`
	Times                        []SelectedTimeItem `json:"times"`
	Policies                     []PolicyItem       `json:"policies"`
	UserName                     string             `json:"userName"`
	PhoneNum                     string             `json:"phoneNum"`
	IsReservationButtonActivated bool               `json:"isReservationButtonActivated"`
	IsLoading                    bool               `json:"isLoading"`
}
