package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haram/models"
	"haram/services/reservation"
)

type stubRepo struct {
	mu        sync.Mutex
	fetchErr  error
	submitErr error
	fetches   int
	submitted []models.ReserveStudyRoomRequest
}

func (r *stubRepo) FetchReservationAvailability(_ context.Context, roomSeq int) (*models.ReservationAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fetches++
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return &models.ReservationAvailability{
		RoomResponse: models.RoomResponse{RoomSeq: roomSeq, RoomTitle: "Rothem"},
		CalendarResponses: []models.CalendarResponse{
			{
				CalendarSeq: 1, IsAvailable: true,
				Times: []models.TimeResponse{{TimeSeq: 1}, {TimeSeq: 2}, {TimeSeq: 3}, {TimeSeq: 4}},
			},
			{
				CalendarSeq: 2, IsAvailable: true,
				Times: []models.TimeResponse{{TimeSeq: 11}},
			},
		},
		PolicyResponses: []models.PolicyResponse{{PolicySeq: 1}, {PolicySeq: 2}},
	}, nil
}

func (r *stubRepo) SubmitReservation(_ context.Context, _ int, req models.ReserveStudyRoomRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.submitErr != nil {
		return r.submitErr
	}
	r.submitted = append(r.submitted, req)
	return nil
}

func newTestService(repo *stubRepo) (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(store, repo, 10*time.Minute, nil), store
}

func hasEvent(res *Result, kind reservation.EventKind) bool {
	for _, e := range res.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

func TestOpenLoadsAvailability(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newTestService(repo)

	res, err := svc.Open(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.Nil(t, res.Failure)
	assert.Equal(t, 1, res.State.SelectedCalendarSeq)
	assert.Len(t, res.State.Times, 4)
	assert.True(t, hasEvent(res, reservation.EventDays))
	assert.True(t, hasEvent(res, reservation.EventPolicies))

	got, err := svc.Get(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, res.State, got.State)
	assert.Empty(t, got.Events)
}

func TestOpenWithFailedFetchCanReload(t *testing.T) {
	repo := &stubRepo{fetchErr: errors.New("dial tcp: timeout")}
	svc, _ := newTestService(repo)

	res, err := svc.Open(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, reservation.CodeNetworkError, res.Failure.Code)
	assert.Empty(t, res.State.Days)

	repo.fetchErr = nil
	res, err = svc.Reload(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Nil(t, res.Failure)
	assert.Len(t, res.State.Days, 2)
	assert.Equal(t, 2, repo.fetches)
}

func TestSelectionStatePersistsAcrossCommands(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	id := opened.SessionID

	_, err = svc.SelectTime(ctx, id, 2)
	require.NoError(t, err)

	res, err := svc.SelectTime(ctx, id, 4)
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, reservation.CodeNonConsecutiveReservations, res.Failure.Code)
	assert.True(t, hasEvent(res, reservation.EventError))

	res, err = svc.SelectTime(ctx, id, 3)
	require.NoError(t, err)
	assert.Nil(t, res.Failure)

	res, err = svc.SelectTime(ctx, id, 1)
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, reservation.CodeMaxReservationCount, res.Failure.Code)

	res, err = svc.SelectDay(ctx, id, 2)
	require.NoError(t, err)
	for _, tm := range res.State.Times {
		assert.False(t, tm.IsTimeSelected)
	}
}

func TestCallerErrorsAbortCommand(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	_, err = svc.SelectDay(ctx, opened.SessionID, 99)
	assert.ErrorIs(t, err, reservation.ErrUnknownDay)

	_, err = svc.SelectTime(ctx, opened.SessionID, 99)
	assert.ErrorIs(t, err, reservation.ErrUnknownTimeSlot)

	_, err = svc.Submit(ctx, opened.SessionID)
	assert.ErrorIs(t, err, reservation.ErrIncompleteReservation)
}

func fillReservation(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.SelectTime(ctx, id, 1)
	require.NoError(t, err)
	_, err = svc.CheckPolicy(ctx, id, 1, true)
	require.NoError(t, err)
	_, err = svc.CheckPolicy(ctx, id, 2, true)
	require.NoError(t, err)
	res, err := svc.UpdateContact(ctx, id, ContactUpdate{UserName: strPtr("Kim"), PhoneNum: strPtr("010-1234-5678")})
	require.NoError(t, err)
	require.True(t, res.State.IsReservationButtonActivated)
	assert.True(t, hasEvent(res, reservation.EventSubmitEnabled))
}

func TestSubmitEndsSession(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	opened, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	fillReservation(t, svc, opened.SessionID)

	res, err := svc.Submit(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.True(t, res.Submitted)
	assert.True(t, hasEvent(res, reservation.EventSubmitted))
	require.Len(t, repo.submitted, 1)
	assert.Equal(t, 1, repo.submitted[0].CalendarSeq)

	_, err = svc.Get(ctx, opened.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitFailureKeepsSession(t *testing.T) {
	repo := &stubRepo{submitErr: reservation.NewSlotAlreadyReservedError("time 1 is taken")}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	opened, err := svc.Open(ctx, 7)
	require.NoError(t, err)
	fillReservation(t, svc, opened.SessionID)

	res, err := svc.Submit(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.False(t, res.Submitted)
	require.NotNil(t, res.Failure)
	assert.Equal(t, reservation.CodeSlotAlreadyReserved, res.Failure.Code)

	got, err := svc.Get(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.True(t, got.State.IsReservationButtonActivated)
}

func TestCancel(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, opened.SessionID))
	assert.ErrorIs(t, svc.Cancel(ctx, opened.SessionID), ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	svc, store := newTestService(&stubRepo{})
	now := time.Now()
	store.now = func() time.Time { return now }

	opened, err := svc.Open(context.Background(), 7)
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = svc.Get(context.Background(), opened.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentCommandsAreSerialized(t *testing.T) {
	svc, _ := newTestService(&stubRepo{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, 7)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, seq := range []int{1, 2, 3, 4, 1, 2, 3, 4} {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			_, _ = svc.SelectTime(ctx, opened.SessionID, seq)
		}(seq)
	}
	wg.Wait()

	res, err := svc.Get(ctx, opened.SessionID)
	require.NoError(t, err)

	selected := 0
	for _, tm := range res.State.Times {
		if tm.IsTimeSelected {
			selected++
		}
	}
	assert.Equal(t, reservation.MaxSelectedTimes, selected)
}
