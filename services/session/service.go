package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"haram/models"
	"haram/services/reservation"
)

// Result is the outcome of one session command.
type Result struct {
	SessionID string                  `json:"sessionId"`
	State     *models.ReservationView `json:"state,omitempty"`
	Events    []reservation.Event     `json:"events"`
	Submitted bool                    `json:"submitted,omitempty"`

	// Failure is a selection or backend error the command ran into. The
	// session itself is still valid and has been saved.
	Failure *reservation.ReservationError `json:"-"`
}

// ContactUpdate changes the contact fields that are non-nil.
type ContactUpdate struct {
	UserName *string
	PhoneNum *string
}

// Service hosts one reservation selector per session and parks its state in a Store.
type Service struct {
	store  Store
	repo   reservation.Repository
	ttl    time.Duration
	logger *zap.Logger
	locks  keyedMutex
	newID  func() string
}

func NewService(store Store, repo reservation.Repository, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// Open starts a reservation session for roomSeq and loads its availability.
// A failed load still creates the session so the caller can Reload it.
func (s *Service) Open(ctx context.Context, roomSeq int) (*Result, error) {
	id := s.newID()

	unlock := s.locks.lock(id)
	defer unlock()

	sel := reservation.New(roomSeq, s.repo, s.logger.With(zap.String("sessionID", id)))
	events := collect(sel)

	res := &Result{SessionID: id}
	if err := sel.LoadAvailability(ctx); err != nil {
		res.Failure = reservation.AsReservationError(err)
	}

	if err := s.store.Save(ctx, id, sel.Snapshot(), s.ttl); err != nil {
		return nil, err
	}

	view := sel.View()
	res.State = &view
	res.Events = *events

	s.logger.Info("reservation session opened",
		zap.String("sessionID", id),
		zap.Int("roomSeq", roomSeq),
	)
	return res, nil
}

// Get returns the current state of a session without changing it.
func (s *Service) Get(ctx context.Context, id string) (*Result, error) {
	return s.apply(ctx, id, func(*reservation.Selector) error { return nil })
}

// Reload fetches the room's availability again.
func (s *Service) Reload(ctx context.Context, id string) (*Result, error) {
	return s.apply(ctx, id, func(sel *reservation.Selector) error {
		return sel.LoadAvailability(ctx)
	})
}

func (s *Service) SelectDay(ctx context.Context, id string, calendarSeq int) (*Result, error) {
	return s.apply(ctx, id, func(sel *reservation.Selector) error {
		return sel.SelectDay(calendarSeq)
	})
}

func (s *Service) SelectTime(ctx context.Context, id string, timeSeq int) (*Result, error) {
	return s.apply(ctx, id, func(sel *reservation.Selector) error {
		return sel.SelectTimeSlot(timeSeq)
	})
}

func (s *Service) DeselectTime(ctx context.Context, id string, timeSeq int) (*Result, error) {
	return s.apply(ctx, id, func(sel *reservation.Selector) error {
		return sel.DeselectTimeSlot(timeSeq)
	})
}

func (s *Service) CheckPolicy(ctx context.Context, id string, policySeq int, checked bool) (*Result, error) {
	return s.apply(ctx, id, func(sel *reservation.Selector) error {
		sel.SetPolicyChecked(policySeq, checked)
		return nil
	})
}

func (s *Service) UpdateContact(ctx context.Context, id string, update ContactUpdate) (*Result, error) {
	return s.apply(ctx, id, func(sel *reservation.Selector) error {
		if update.UserName != nil {
			sel.SetContactName(*update.UserName)
		}
		if update.PhoneNum != nil {
			sel.SetContactPhone(*update.PhoneNum)
		}
		return nil
	})
}

// Submit books the session's reservation. A successful booking ends the session.
func (s *Service) Submit(ctx context.Context, id string) (*Result, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	st, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	sel := reservation.Restore(st, s.repo, s.logger.With(zap.String("sessionID", id)))
	events := collect(sel)

	res := &Result{SessionID: id}
	if err := sel.Submit(ctx); err != nil {
		if fatal := s.commandError(err); fatal != nil {
			return nil, fatal
		}
		res.Failure = reservation.AsReservationError(err)
		if err := s.store.Save(ctx, id, sel.Snapshot(), s.ttl); err != nil {
			return nil, err
		}
	} else {
		res.Submitted = true
		if err := s.store.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to clear submitted session", zap.String("sessionID", id), zap.Error(err))
		}
	}

	view := sel.View()
	res.State = &view
	res.Events = *events
	return res, nil
}

// Cancel drops a session.
func (s *Service) Cancel(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if _, err := s.store.Load(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("reservation session cancelled", zap.String("sessionID", id))
	return nil
}

func (s *Service) apply(ctx context.Context, id string, fn func(*reservation.Selector) error) (*Result, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	st, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	sel := reservation.Restore(st, s.repo, s.logger.With(zap.String("sessionID", id)))
	events := collect(sel)

	res := &Result{SessionID: id}
	if err := fn(sel); err != nil {
		if fatal := s.commandError(err); fatal != nil {
			return nil, fatal
		}
		res.Failure = reservation.AsReservationError(err)
	}

	if err := s.store.Save(ctx, id, sel.Snapshot(), s.ttl); err != nil {
		return nil, err
	}

	view := sel.View()
	res.State = &view
	res.Events = *events
	return res, nil
}

// commandError returns err when it should abort the command: caller mistakes
// and anything unclassified. Selection and backend errors return nil, they are
// reported through Result.Failure and the emitted events.
func (s *Service) commandError(err error) error {
	rErr := reservation.AsReservationError(err)
	if rErr == nil {
		return fmt.Errorf("apply session command: %w", err)
	}

	switch rErr.Code {
	case reservation.CodeUnknownDay, reservation.CodeUnknownTimeSlot, reservation.CodeIncompleteReservation:
		return err
	}
	return nil
}

func collect(sel *reservation.Selector) *[]reservation.Event {
	events := make([]reservation.Event, 0)
	sel.Subscribe(func(e reservation.Event) {
		events = append(events, e)
	})
	return &events
}
