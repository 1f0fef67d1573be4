package rothemRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the rooms and reservations collections rely on.
func (r *MongoRothemRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	roomIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "roomSeq", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_room_seq"),
		},
	}
	if _, err := r.rooms.Indexes().CreateMany(ctx, roomIndexes); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}

	reservationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "roomSeq", Value: 1}, {Key: "calendarSeq", Value: 1}},
			Options: options.Index().SetName("room_calendar_idx"),
		},
	}
	if _, err := r.reservations.Indexes().CreateMany(ctx, reservationIndexes); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
