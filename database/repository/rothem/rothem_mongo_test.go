package rothemRepo

import (
	"context"
	"testing"

	"haram/models"
	"haram/services/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func roomDoc(version int, reservedTime bool) bson.D {
	return bson.D{
		{Key: "roomSeq", Value: 3},
		{Key: "room", Value: bson.D{{Key: "roomSeq", Value: 3}, {Key: "roomTitle", Value: "Room A"}}},
		{Key: "calendars", Value: bson.A{
			bson.D{
				{Key: "calendarSeq", Value: 10},
				{Key: "isAvailable", Value: true},
				{Key: "times", Value: bson.A{
					bson.D{{Key: "timeSeq", Value: 1}, {Key: "isReserved", Value: reservedTime}},
					bson.D{{Key: "timeSeq", Value: 2}, {Key: "isReserved", Value: false}},
				}},
			},
			bson.D{
				{Key: "calendarSeq", Value: 11},
				{Key: "isAvailable", Value: false},
			},
		}},
		{Key: "policies", Value: bson.A{bson.D{{Key: "policySeq", Value: 1}, {Key: "title", Value: "Quiet"}}}},
		{Key: "version", Value: version},
	}
}

func bookingRequest(calendarSeq int, times ...int) models.ReserveStudyRoomRequest {
	req := models.ReserveStudyRoomRequest{
		UserName:                  "Kim",
		PhoneNum:                  "010-1234-5678",
		CalendarSeq:               calendarSeq,
		ReservationPolicyRequests: []models.ReservationPolicyRequest{{PolicySeq: 1, PolicyAgreeYn: "Y"}},
	}
	for _, seq := range times {
		req.TimeRequests = append(req.TimeRequests, models.TimeRequest{TimeSeq: seq})
	}
	return req
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	rErr := reservation.AsReservationError(err)
	require.NotNil(t, rErr, "expected a reservation error, got %v", err)
	assert.Equal(t, code, rErr.Code)
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, evt := range mt.GetAllStartedEvents() {
		names = append(names, evt.CommandName)
	}
	return names
}

func TestMongoRothemRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "haram.rooms"

	mt.Run("fetch availability", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, false)))
		repo := NewMongoRothemRepo(mt.DB, nil)

		got, err := repo.FetchReservationAvailability(context.Background(), 3)
		require.NoError(mt, err)
		assert.Equal(mt, "Room A", got.RoomResponse.RoomTitle)
		require.Len(mt, got.CalendarResponses, 2)
		assert.Len(mt, got.CalendarResponses[0].Times, 2)
		assert.Equal(mt, "Quiet", got.PolicyResponses[0].Title)
	})

	mt.Run("fetch unknown room", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoRothemRepo(mt.DB, nil)

		_, err := repo.FetchReservationAvailability(context.Background(), 99)
		assertCode(mt.T, err, reservation.CodeRequestFailed)
	})

	mt.Run("submit reserves slots", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, false)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)
		repo := NewMongoRothemRepo(mt.DB, nil)

		require.NoError(mt, repo.SubmitReservation(context.Background(), 3, bookingRequest(10, 1, 2)))
		assert.Equal(mt, []string{"find", "insert", "update"}, commandNames(mt))
	})

	mt.Run("failed record leaves schedule untouched", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, false)),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
		)
		repo := NewMongoRothemRepo(mt.DB, nil)

		err := repo.SubmitReservation(context.Background(), 3, bookingRequest(10, 1))
		require.Error(mt, err)
		assert.Equal(mt, []string{"find", "insert"}, commandNames(mt))
	})

	mt.Run("failed slot update removes record", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, false)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad update"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		repo := NewMongoRothemRepo(mt.DB, nil)

		err := repo.SubmitReservation(context.Background(), 3, bookingRequest(10, 1))
		require.Error(mt, err)
		assert.Equal(mt, []string{"find", "insert", "update", "delete"}, commandNames(mt))
	})

	mt.Run("submit on reserved slot", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, true)))
		repo := NewMongoRothemRepo(mt.DB, nil)

		err := repo.SubmitReservation(context.Background(), 3, bookingRequest(10, 1, 2))
		assertCode(mt.T, err, reservation.CodeSlotAlreadyReserved)
	})

	mt.Run("submit on closed day", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, false)))
		repo := NewMongoRothemRepo(mt.DB, nil)

		err := repo.SubmitReservation(context.Background(), 3, bookingRequest(11, 1))
		assertCode(mt.T, err, reservation.CodeSlotAlreadyReserved)
	})

	mt.Run("submit loses version race", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, roomDoc(4, false)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		repo := NewMongoRothemRepo(mt.DB, nil)

		err := repo.SubmitReservation(context.Background(), 3, bookingRequest(10, 2))
		assertCode(mt.T, err, reservation.CodeSlotAlreadyReserved)
		assert.Equal(mt, []string{"find", "insert", "update", "delete"}, commandNames(mt))
	})

	mt.Run("list rooms", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "room", Value: bson.D{{Key: "roomSeq", Value: 1}}}},
			bson.D{{Key: "room", Value: bson.D{{Key: "roomSeq", Value: 2}}}},
		))
		repo := NewMongoRothemRepo(mt.DB, nil)

		rooms, err := repo.ListRooms(context.Background())
		require.NoError(mt, err)
		require.Len(mt, rooms, 2)
		assert.Equal(mt, 2, rooms[1].RoomSeq)
	})
}
