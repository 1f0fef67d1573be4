package rothemRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"haram/models"
	"haram/services/reservation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrRoomNotFound is returned when no schedule document exists for a room.
var ErrRoomNotFound = errors.New("room not found")

// RoomDocument is the stored schedule of one room.
type RoomDocument struct {
	RoomSeq   int                       `bson:"roomSeq"`
	Room      models.RoomResponse       `bson:"room"`
	Calendars []models.CalendarResponse `bson:"calendars"`
	Policies  []models.PolicyResponse   `bson:"policies"`
	Version   int                       `bson:"version"`
	UpdatedAt time.Time                 `bson:"updatedAt"`
}

// MongoRothemRepo serves room schedules from MongoDB and books them with
// optimistic concurrency on the room document's version.
type MongoRothemRepo struct {
	rooms        *mongo.Collection
	reservations *mongo.Collection
	logger       *zap.Logger
	now          func() time.Time
}

var _ reservation.Repository = (*MongoRothemRepo)(nil)

func NewMongoRothemRepo(db *mongo.Database, logger *zap.Logger) *MongoRothemRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoRothemRepo{
		rooms:        db.Collection("rooms"),
		reservations: db.Collection("reservations"),
		logger:       logger.Named("rothemRepo"),
		now:          time.Now,
	}
}

// newContext derives a bounded context from the caller's.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoRothemRepo) findRoomDocument(ctx context.Context, roomSeq int) (*RoomDocument, error) {
	var doc RoomDocument
	err := r.rooms.FindOne(ctx, bson.M{"roomSeq": roomSeq}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("room %d: %w", roomSeq, ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %d: %w", roomSeq, err)
	}
	return &doc, nil
}

// FetchReservationAvailability returns the stored schedule of roomSeq.
func (r *MongoRothemRepo) FetchReservationAvailability(ctx context.Context, roomSeq int) (*models.ReservationAvailability, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	doc, err := r.findRoomDocument(ctx, roomSeq)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, reservation.NewRequestFailedError(404, err.Error())
		}
		return nil, err
	}

	return &models.ReservationAvailability{
		RoomResponse:      doc.Room,
		CalendarResponses: doc.Calendars,
		PolicyResponses:   doc.Policies,
	}, nil
}

// SubmitReservation records the booking and marks the requested slots reserved.
// The room document is only updated if nobody changed it since it was read;
// otherwise the record is removed again.
func (r *MongoRothemRepo) SubmitReservation(ctx context.Context, roomSeq int, req models.ReserveStudyRoomRequest) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	doc, err := r.findRoomDocument(ctx, roomSeq)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return reservation.NewRequestFailedError(404, err.Error())
		}
		return err
	}

	calIdx := -1
	for i, cal := range doc.Calendars {
		if cal.CalendarSeq == req.CalendarSeq {
			calIdx = i
			break
		}
	}
	if calIdx < 0 || !doc.Calendars[calIdx].IsAvailable {
		return reservation.NewSlotAlreadyReservedError(fmt.Sprintf("calendar %d is not open for reservations", req.CalendarSeq))
	}

	timeSeqs := make([]int, 0, len(req.TimeRequests))
	set := bson.M{}
	for _, tr := range req.TimeRequests {
		timeIdx := -1
		for j, t := range doc.Calendars[calIdx].Times {
			if t.TimeSeq == tr.TimeSeq {
				timeIdx = j
				break
			}
		}
		if timeIdx < 0 || doc.Calendars[calIdx].Times[timeIdx].IsReserved {
			return reservation.NewSlotAlreadyReservedError(fmt.Sprintf("time %d is not available", tr.TimeSeq))
		}
		set[fmt.Sprintf("calendars.%d.times.%d.isReserved", calIdx, timeIdx)] = true
		timeSeqs = append(timeSeqs, tr.TimeSeq)
	}

	now := r.now()
	set["updatedAt"] = now

	policySeqs := make([]int, 0, len(req.ReservationPolicyRequests))
	for _, p := range req.ReservationPolicyRequests {
		policySeqs = append(policySeqs, p.PolicySeq)
	}

	record := models.RothemReservation{
		ID:          uuid.New().String(),
		RoomSeq:     roomSeq,
		CalendarSeq: req.CalendarSeq,
		TimeSeqs:    timeSeqs,
		PolicySeqs:  policySeqs,
		UserName:    req.UserName,
		PhoneNum:    req.PhoneNum,
		CreatedAt:   now,
	}

	// The record goes in first so a failure here leaves the schedule untouched.
	if _, err := r.reservations.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to record reservation for room %d: %w", roomSeq, err)
	}

	filter := bson.M{"roomSeq": roomSeq, "version": doc.Version}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	result, err := r.rooms.UpdateOne(ctx, filter, update)
	if err != nil {
		r.discardReservation(record.ID)
		return fmt.Errorf("failed to reserve slots in room %d: %w", roomSeq, err)
	}
	if result.MatchedCount == 0 {
		r.logger.Warn("room schedule changed during reservation",
			zap.Int("roomSeq", roomSeq),
			zap.Int("version", doc.Version),
		)
		r.discardReservation(record.ID)
		return reservation.NewSlotAlreadyReservedError("schedule changed, please reload")
	}

	r.logger.Info("reservation stored",
		zap.String("reservationID", record.ID),
		zap.Int("roomSeq", roomSeq),
		zap.Int("calendarSeq", req.CalendarSeq),
		zap.Ints("timeSeqs", timeSeqs),
	)
	return nil
}

// discardReservation removes a record whose slots could not be flipped. It
// runs on its own context because the request's may already be done.
func (r *MongoRothemRepo) discardReservation(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.reservations.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		r.logger.Error("failed to discard orphaned reservation",
			zap.String("reservationID", id),
			zap.Error(err),
		)
	}
}

// ListRooms returns the info of every stored room ordered by roomSeq.
func (r *MongoRothemRepo) ListRooms(ctx context.Context) ([]models.RoomResponse, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "roomSeq", Value: 1}}).
		SetProjection(bson.M{"room": 1})
	cursor, err := r.rooms.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []RoomDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	rooms := make([]models.RoomResponse, 0, len(docs))
	for _, d := range docs {
		rooms = append(rooms, d.Room)
	}
	return rooms, nil
}

func (r *MongoRothemRepo) FindRoom(ctx context.Context, roomSeq int) (*models.RoomResponse, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	doc, err := r.findRoomDocument(ctx, roomSeq)
	if err != nil {
		return nil, err
	}
	return &doc.Room, nil
}

// UpsertRoom replaces the schedule of a room, keeping its version moving forward.
func (r *MongoRothemRepo) UpsertRoom(ctx context.Context, availability models.ReservationAvailability) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	roomSeq := availability.RoomResponse.RoomSeq
	filter := bson.M{"roomSeq": roomSeq}
	update := bson.M{
		"$set": bson.M{
			"room":      availability.RoomResponse,
			"calendars": availability.CalendarResponses,
			"policies":  availability.PolicyResponses,
			"updatedAt": r.now(),
		},
		"$inc": bson.M{"version": 1},
	}

	if _, err := r.rooms.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert room %d: %w", roomSeq, err)
	}
	return nil
}
