package reservation

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"haram/models"
)

// Selector owns the state of one study-room reservation: the fetched schedule,
// the user's day/time/policy choices and contact details.
//
// A Selector is not safe for concurrent use. Its host must serialize calls.
type Selector struct {
	roomSeq int
	repo    Repository
	logger  *zap.Logger

	room        *models.RoomResponse
	days        []models.CalendarResponse
	selectedDay int
	hasDay      bool
	times       []models.SelectedTimeItem
	policies    []models.PolicyItem

	// last day id asked for, available or not
	requestedDay int
	hasRequested bool

	userName string
	phoneNum string

	submitEnabled bool
	loading       bool

	pub publisher
}

// New creates an empty selector for roomSeq. Call LoadAvailability to populate it.
func New(roomSeq int, repo Repository, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		roomSeq: roomSeq,
		repo:    repo,
		logger:  logger.With(zap.Int("roomSeq", roomSeq)),
	}
}

// Subscribe registers fn for every event the selector emits from now on.
// The returned function removes the registration.
func (s *Selector) Subscribe(fn func(Event)) func() {
	return s.pub.subscribe(fn)
}

// LoadAvailability fetches the room's schedule and policies. On failure the
// previous state is kept and the classified error is emitted and returned.
func (s *Selector) LoadAvailability(ctx context.Context) error {
	s.setLoading(true)

	resp, err := s.repo.FetchReservationAvailability(ctx, s.roomSeq)
	if err != nil {
		rErr := classify(err)
		s.logger.Warn("failed to fetch reservation availability", zap.Error(rErr))
		s.setLoading(false)
		s.emitError(rErr)
		return rErr
	}

	room := resp.RoomResponse
	s.room = &room
	s.days = cloneCalendars(resp.CalendarResponses)
	s.hasDay = false
	s.selectedDay = 0
	s.hasRequested = false
	s.requestedDay = 0
	s.times = nil

	policies := make([]models.PolicyItem, 0, len(resp.PolicyResponses))
	for _, p := range resp.PolicyResponses {
		policies = append(policies, models.PolicyItem{
			PolicySeq: p.PolicySeq,
			Title:     p.Title,
			Content:   p.Content,
		})
	}
	sort.SliceStable(policies, func(i, j int) bool {
		return policies[i].PolicySeq > policies[j].PolicySeq
	})
	s.policies = policies

	s.pub.publish(Event{Kind: EventRoomInfo, Room: s.roomCopy()})
	s.pub.publish(Event{Kind: EventDays, Days: s.dayItems()})
	s.pub.publish(Event{Kind: EventPolicies, Policies: s.policyItems()})

	autoSelected := false
	for _, day := range s.days {
		if day.IsAvailable {
			// the id comes from the fetched days, lookup cannot fail
			_ = s.SelectDay(day.CalendarSeq)
			autoSelected = true
			break
		}
	}
	if !autoSelected {
		s.pub.publish(Event{Kind: EventTimes, Times: s.timeItems()})
	}

	s.logger.Debug("reservation availability loaded",
		zap.Int("days", len(s.days)),
		zap.Int("policies", len(s.policies)),
	)

	s.setLoading(false)
	s.refreshSubmitEnabled()
	return nil
}

// SelectDay shows the time slots of an available day. Asking for the same day
// twice in a row is a no-op; an unavailable day changes nothing but still
// counts as the last request.
func (s *Selector) SelectDay(calendarSeq int) error {
	day, ok := s.findDay(calendarSeq)
	if !ok {
		return ErrUnknownDay
	}

	if s.hasRequested && s.requestedDay == calendarSeq {
		return nil
	}
	s.requestedDay = calendarSeq
	s.hasRequested = true

	if !day.IsAvailable {
		s.logger.Debug("ignoring unavailable day", zap.Int("calendarSeq", calendarSeq))
		return nil
	}

	times := make([]models.SelectedTimeItem, 0, len(day.Times))
	for _, t := range day.Times {
		times = append(times, models.SelectedTimeItem{
			TimeSeq:    t.TimeSeq,
			Hour:       t.Hour,
			Meridiem:   t.Meridiem,
			IsReserved: t.IsReserved,
		})
	}

	s.selectedDay = calendarSeq
	s.hasDay = true
	s.times = times

	s.pub.publish(Event{Kind: EventTimes, Times: s.timeItems()})
	s.refreshSubmitEnabled()
	return nil
}

// SelectTimeSlot adds a time slot to the selection. At most two consecutive
// slots may be selected; a reserved slot is silently ignored.
func (s *Selector) SelectTimeSlot(timeSeq int) error {
	idx := s.timeIndex(timeSeq)
	if idx < 0 {
		return ErrUnknownTimeSlot
	}

	selected := s.selectedTimeSeqs()
	if len(selected) >= MaxSelectedTimes {
		s.emitError(ErrMaxReservationCount)
		return ErrMaxReservationCount
	}

	// the UI never offers reserved slots
	if s.times[idx].IsReserved {
		return nil
	}

	if len(selected) == 1 && !isAdjacent(timeSeq, selected[0]) {
		s.emitError(ErrNonConsecutiveReservations)
		return ErrNonConsecutiveReservations
	}

	s.times[idx].IsTimeSelected = true
	s.logger.Debug("time slot selected", zap.Int("timeSeq", timeSeq))

	s.pub.publish(Event{Kind: EventTimes, Times: s.timeItems()})
	s.refreshSubmitEnabled()
	return nil
}

// DeselectTimeSlot removes a time slot from the selection.
func (s *Selector) DeselectTimeSlot(timeSeq int) error {
	idx := s.timeIndex(timeSeq)
	if idx < 0 {
		return ErrUnknownTimeSlot
	}

	s.times[idx].IsTimeSelected = false
	s.logger.Debug("time slot deselected", zap.Int("timeSeq", timeSeq))

	s.pub.publish(Event{Kind: EventTimes, Times: s.timeItems()})
	s.refreshSubmitEnabled()
	return nil
}

// SetPolicyChecked records the user's agreement to a policy. Unknown ids leave
// every policy as it was.
func (s *Selector) SetPolicyChecked(policySeq int, checked bool) {
	for i := range s.policies {
		if s.policies[i].PolicySeq == policySeq {
			s.policies[i].IsChecked = checked
		}
	}

	s.pub.publish(Event{Kind: EventPolicies, Policies: s.policyItems()})
	s.refreshSubmitEnabled()
}

func (s *Selector) SetContactName(name string) {
	s.userName = name
	s.refreshSubmitEnabled()
}

func (s *Selector) SetContactPhone(phone string) {
	s.phoneNum = phone
	s.refreshSubmitEnabled()
}

// CanSubmit reports whether the current state forms a valid reservation.
func (s *Selector) CanSubmit() bool {
	if !IsValidPhoneNumber(s.phoneNum) || s.userName == "" {
		return false
	}
	for _, p := range s.policies {
		if !p.IsChecked {
			return false
		}
	}
	return len(s.selectedTimeSeqs()) > 0
}

// Submit sends the reservation to the repository. It refuses to call the
// repository while CanSubmit is false. No state is changed either way.
func (s *Selector) Submit(ctx context.Context) error {
	if !s.CanSubmit() {
		return ErrIncompleteReservation
	}

	req := s.buildRequest()
	if err := s.repo.SubmitReservation(ctx, s.roomSeq, req); err != nil {
		rErr := classify(err)
		s.logger.Warn("failed to submit reservation",
			zap.Int("calendarSeq", req.CalendarSeq),
			zap.Error(rErr),
		)
		s.emitError(rErr)
		return rErr
	}

	s.logger.Info("study room reserved",
		zap.Int("calendarSeq", req.CalendarSeq),
		zap.Int("times", len(req.TimeRequests)),
	)
	s.pub.publish(Event{Kind: EventSubmitted})
	return nil
}

// View returns a copy of the current state for rendering.
func (s *Selector) View() models.ReservationView {
	v := models.ReservationView{
		RoomSeq:                      s.roomSeq,
		Room:                         s.roomCopy(),
		Days:                         s.dayItems(),
		Times:                        s.timeItems(),
		Policies:                     s.policyItems(),
		UserName:                     s.userName,
		PhoneNum:                     s.phoneNum,
		IsReservationButtonActivated: s.CanSubmit(),
		IsLoading:                    s.loading,
	}
	if s.hasDay {
		v.SelectedCalendarSeq = s.selectedDay
	}
	return v
}

func (s *Selector) buildRequest() models.ReserveStudyRoomRequest {
	policies := make([]models.ReservationPolicyRequest, 0, len(s.policies))
	for _, p := range s.policies {
		policies = append(policies, models.ReservationPolicyRequest{
			PolicySeq:     p.PolicySeq,
			PolicyAgreeYn: "Y",
		})
	}

	selected := s.selectedTimeSeqs()
	times := make([]models.TimeRequest, 0, len(selected))
	for _, seq := range selected {
		times = append(times, models.TimeRequest{TimeSeq: seq})
	}

	return models.ReserveStudyRoomRequest{
		UserName:                  s.userName,
		PhoneNum:                  s.phoneNum,
		CalendarSeq:               s.selectedDay,
		ReservationPolicyRequests: policies,
		TimeRequests:              times,
	}
}

func (s *Selector) setLoading(loading bool) {
	if s.loading == loading {
		return
	}
	s.loading = loading
	s.pub.publish(Event{Kind: EventLoading, Value: boolPtr(loading)})
}

func (s *Selector) refreshSubmitEnabled() {
	enabled := s.CanSubmit()
	if enabled == s.submitEnabled {
		return
	}
	s.submitEnabled = enabled
	s.pub.publish(Event{Kind: EventSubmitEnabled, Value: boolPtr(enabled)})
}

func (s *Selector) emitError(err *ReservationError) {
	s.pub.publish(Event{
		Kind:  EventError,
		Error: &ErrorPayload{Code: err.Code, Message: err.Message},
	})
}

func (s *Selector) findDay(calendarSeq int) (models.CalendarResponse, bool) {
	for _, d := range s.days {
		if d.CalendarSeq == calendarSeq {
			return d, true
		}
	}
	return models.CalendarResponse{}, false
}

func (s *Selector) timeIndex(timeSeq int) int {
	for i, t := range s.times {
		if t.TimeSeq == timeSeq {
			return i
		}
	}
	return -1
}

func (s *Selector) selectedTimeSeqs() []int {
	var seqs []int
	for _, t := range s.times {
		if t.IsTimeSelected {
			seqs = append(seqs, t.TimeSeq)
		}
	}
	return seqs
}

func (s *Selector) roomCopy() *models.RoomResponse {
	if s.room == nil {
		return nil
	}
	room := *s.room
	return &room
}

func (s *Selector) dayItems() []models.SelectedDayItem {
	items := make([]models.SelectedDayItem, 0, len(s.days))
	for _, d := range s.days {
		items = append(items, models.SelectedDayItem{
			CalendarSeq: d.CalendarSeq,
			Day:         d.Day,
			Date:        d.Date,
			IsAvailable: d.IsAvailable,
		})
	}
	return items
}

func (s *Selector) timeItems() []models.SelectedTimeItem {
	items := make([]models.SelectedTimeItem, len(s.times))
	copy(items, s.times)
	return items
}

func (s *Selector) policyItems() []models.PolicyItem {
	items := make([]models.PolicyItem, len(s.policies))
	copy(items, s.policies)
	return items
}

func cloneCalendars(in []models.CalendarResponse) []models.CalendarResponse {
	out := make([]models.CalendarResponse, len(in))
	for i, d := range in {
		out[i] = d
		if d.Times != nil {
			out[i].Times = make([]models.TimeResponse, len(d.Times))
			copy(out[i].Times, d.Times)
		}
	}
	return out
}
