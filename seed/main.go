package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"haram/config"
	"haram/database"
	rothemRepo "haram/database/repository/rothem"
	"haram/models"
	"haram/utils"

	"go.uber.org/zap"
)

// Study rooms open from 9 AM to 9 PM in one-hour units.
const (
	openHour  = 9
	closeHour = 21
)

var rooms = []models.RoomResponse{
	{RoomSeq: 1, RoomTitle: "Rothem A", RoomExplanation: "Quiet room with a whiteboard", PeopleCount: 4},
	{RoomSeq: 2, RoomTitle: "Rothem B", RoomExplanation: "Group room with a screen", PeopleCount: 8},
	{RoomSeq: 3, RoomTitle: "Rothem C", RoomExplanation: "Single study booth", PeopleCount: 1},
}

var policies = []models.PolicyResponse{
	{PolicySeq: 1, Title: "Personal information", Content: "Your name and phone number are kept until the reservation ends."},
	{PolicySeq: 2, Title: "No-show", Content: "Reservations not used within 15 minutes are cancelled."},
	{PolicySeq: 3, Title: "Cleaning", Content: "Leave the room as you found it."},
}

func meridiem(hour int) string {
	if hour < 12 {
		return "am"
	}
	return "pm"
}

// buildWeek generates the next seven days for a room. Sundays are closed and
// roughly a fifth of the remaining units are already taken.
func buildWeek(roomSeq int, from time.Time) []models.CalendarResponse {
	days := make([]models.CalendarResponse, 0, 7)
	timeSeq := roomSeq * 10000

	for i := 0; i < 7; i++ {
		date := from.AddDate(0, 0, i)
		day := models.CalendarResponse{
			CalendarSeq: roomSeq*100 + i + 1,
			Day:         date.Format("Mon"),
			Date:        date.Format("2006-01-02"),
			IsAvailable: date.Weekday() != time.Sunday,
		}
		if day.IsAvailable {
			for hour := openHour; hour < closeHour; hour++ {
				timeSeq++
				day.Times = append(day.Times, models.TimeResponse{
					TimeSeq:    timeSeq,
					Hour:       fmt.Sprintf("%02d:00", hour),
					Meridiem:   meridiem(hour),
					IsReserved: rand.Intn(5) == 0,
				})
			}
		}
		days = append(days, day)
	}
	return days
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	client, err := database.InitDB(logger)
	if err != nil {
		logger.Fatal("seed: failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := rothemRepo.NewMongoRothemRepo(database.Database(client), logger)
	if err := repo.EnsureIndexes(); err != nil {
		logger.Fatal("seed: failed to create indexes", zap.Error(err))
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, room := range rooms {
		availability := models.ReservationAvailability{
			RoomResponse:      room,
			CalendarResponses: buildWeek(room.RoomSeq, today),
			PolicyResponses:   policies,
		}
		if err := repo.UpsertRoom(context.Background(), availability); err != nil {
			logger.Fatal("seed: failed to store room", zap.Int("roomSeq", room.RoomSeq), zap.Error(err))
		}
		logger.Info("seeded room schedule", zap.Int("roomSeq", room.RoomSeq), zap.String("title", room.RoomTitle))
	}
}
