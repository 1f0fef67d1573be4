package reservation

import (
	"go.uber.org/zap"

	"haram/models"
)

// State is the serializable form of a Selector, used to park a reservation
// between requests.
type State struct {
	RoomSeq       int                       `json:"roomSeq"`
	Room          *models.RoomResponse      `json:"room,omitempty"`
	Days          []models.CalendarResponse `json:"days,omitempty"`
	SelectedDay   int                       `json:"selectedDay"`
	HasDay        bool                      `json:"hasDay"`
	RequestedDay  int                       `json:"requestedDay"`
	HasRequested  bool                      `json:"hasRequested"`
	Times         []models.SelectedTimeItem `json:"times,omitempty"`
	Policies      []models.PolicyItem       `json:"policies,omitempty"`
	UserName      string                    `json:"userName"`
	PhoneNum      string                    `json:"phoneNum"`
	SubmitEnabled bool                      `json:"submitEnabled"`
}

// Snapshot captures the selector's state. Subscribers are not part of it.
func (s *Selector) Snapshot() State {
	return State{
		RoomSeq:       s.roomSeq,
		Room:          s.roomCopy(),
		Days:          cloneCalendars(s.days),
		SelectedDay:   s.selectedDay,
		HasDay:        s.hasDay,
		RequestedDay:  s.requestedDay,
		HasRequested:  s.hasRequested,
		Times:         s.timeItems(),
		Policies:      s.policyItems(),
		UserName:      s.userName,
		PhoneNum:      s.phoneNum,
		SubmitEnabled: s.submitEnabled,
	}
}

// Restore rebuilds a selector from a snapshot.
func Restore(st State, repo Repository, logger *zap.Logger) *Selector {
	s := New(st.RoomSeq, repo, logger)
	if st.Room != nil {
		room := *st.Room
		s.room = &room
	}
	s.days = cloneCalendars(st.Days)
	s.selectedDay = st.SelectedDay
	s.hasDay = st.HasDay
	s.requestedDay = st.RequestedDay
	s.hasRequested = st.HasRequested
	s.times = append([]models.SelectedTimeItem(nil), st.Times...)
	s.policies = append([]models.PolicyItem(nil), st.Policies...)
	s.userName = st.UserName
	s.phoneNum = st.PhoneNum
	s.submitEnabled = st.SubmitEnabled
	return s
}
