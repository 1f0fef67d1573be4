package reservation

import "haram/models"

type EventKind string

const (
	EventRoomInfo      EventKind = "roomInfo"
	EventDays          EventKind = "days"
	EventTimes         EventKind = "times"
	EventPolicies      EventKind = "policies"
	EventSubmitEnabled EventKind = "submitEnabled"
	EventSubmitted     EventKind = "submitted"
	EventError         EventKind = "error"
	EventLoading       EventKind = "loading"
)

// ErrorPayload is the renderable part of a classified error.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Event is a single output of the selector. Only the fields relevant to Kind are set,
// and every slice is a copy the receiver may keep.
type Event struct {
	Kind     EventKind                 `json:"kind"`
	Room     *models.RoomResponse      `json:"room,omitempty"`
	Days     []models.SelectedDayItem  `json:"days,omitempty"`
	Times    []models.SelectedTimeItem `json:"times,omitempty"`
	Policies []models.PolicyItem       `json:"policies,omitempty"`
	Value    *bool                     `json:"value,omitempty"`
	Error    *ErrorPayload             `json:"error,omitempty"`
}

type subscriber struct {
	id int
	fn func(Event)
}

type publisher struct {
	nextID int
	subs   []subscriber
}

func (p *publisher) subscribe(fn func(Event)) func() {
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

func (p *publisher) publish(e Event) {
	for _, s := range p.subs {
		s.fn(e)
	}
}

func boolPtr(b bool) *bool { return &b }
