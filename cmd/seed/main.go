package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"reserva/internal/database"
	"reserva/internal/domain"
	"reserva/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "reserva.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("db connection failed:", err)
	}

	log.Println("running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("cleaning old data...")
	db.Exec("DELETE FROM push_subscriptions")
	db.Exec("DELETE FROM intentions")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM resources")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	resources := repository.NewResourceRepository(db)
	reservations := repository.NewReservationRepository(db)

	log.Println("creating users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &domain.User{
		Email:        "admin@reserva.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
		Department:   "Operations",
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal("create admin failed:", err)
	}
	log.Println("admin created: admin@reserva.local / admin123")

	requesterHash, _ := bcrypt.GenerateFromPassword([]byte("requester123"), bcrypt.DefaultCost)
	requester := &domain.User{
		Email:        "maria@reserva.local",
		PasswordHash: string(requesterHash),
		Role:         domain.RoleRequester,
		Name:         "Maria Souza",
		Department:   "Pedagogy",
		IsActive:     true,
	}
	if err := users.Create(ctx, requester); err != nil {
		log.Fatal("create requester failed:", err)
	}
	log.Println("requester created: maria@reserva.local / requester123")

	log.Println("creating catalog...")
	meetingRoom := &domain.Resource{Name: "Meeting Room", IconKey: "door", SortOrder: 1, IsActive: true}
	projector := &domain.Resource{Name: "Projector", IconKey: "projector", SortOrder: 2, IsActive: true}
	soundKit := &domain.Resource{Name: "Sound Kit", IconKey: "speaker", SortOrder: 3, IsActive: true}
	for _, r := range []*domain.Resource{meetingRoom, projector, soundKit} {
		if err := resources.Create(ctx, r); err != nil {
			log.Fatal("create resource failed:", err)
		}
	}

	streaming := &domain.Resource{Name: "Streaming", IconKey: "tv", GroupLane: "Streaming", SortOrder: 4, IsActive: true}
	if err := resources.Create(ctx, streaming); err != nil {
		log.Fatal("create resource failed:", err)
	}
	for _, name := range []string{"Disney+", "Netflix"} {
		sub := &domain.Resource{ParentID: &streaming.ID, Name: name, IsActive: true}
		if err := resources.Create(ctx, sub); err != nil {
			log.Fatal("create sub-resource failed:", err)
		}
	}

	log.Println("creating sample reservations...")
	day := time.Now().AddDate(0, 0, 4)
	start := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.Local)
	sample := []*domain.Reservation{
		{
			UserID:        requester.ID,
			ResourceID:    meetingRoom.ID,
			TargetID:      meetingRoom.ID,
			StartTime:     start,
			EndTime:       start.Add(2 * time.Hour),
			Status:        domain.ReservationApproved,
			UsageLocation: "Pedagogy / Room 12",
			Activity:      "Planning meeting",
		},
		{
			UserID:        requester.ID,
			ResourceID:    projector.ID,
			TargetID:      projector.ID,
			StartTime:     start.Add(5 * time.Hour),
			EndTime:       start.Add(7 * time.Hour),
			Status:        domain.ReservationPending,
			UsageLocation: "Pedagogy / Auditorium",
			Activity:      "Workshop projection",
		},
	}
	for _, r := range sample {
		if err := reservations.Create(ctx, r); err != nil {
			log.Fatal("create reservation failed:", err)
		}
	}

	log.Println("seed completed")
}
