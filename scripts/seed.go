package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/saudehub/backend/internal/adapters/database"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/scheduling"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	"github.com/saudehub/backend/pkg/auth"
	"github.com/saudehub/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				share_session_documents,
				share_sessions,
				travel_override_audits,
				notifications,
				documents,
				events,
				professionals,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	userRepo := database.NewUserAdapter(pgClient)
	professionalRepo := database.NewProfessionalAdapter(pgClient)
	eventRepo := database.NewEventAdapter(pgClient)
	auditRepo := database.NewAuditAdapter(pgClient)

	// 1. Seed a demo account
	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}
	user := &entities.User{
		ID:           uuid.New().String(),
		Name:         "Maria Souza",
		Email:        "maria@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	// 2. Seed professionals
	professionals := []entities.Professional{
		{ID: uuid.New().String(), UserID: user.ID, Name: "Dr. Carla Lima", Specialty: "Cardiologia", Address: "Av. Paulista 1000, Sao Paulo", Contact: "+55 11 99999-0001", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), UserID: user.ID, Name: "Dr. Joao Pereira", Specialty: "Ortopedia", Address: "Rua Augusta 500, Sao Paulo", Contact: "+55 11 99999-0002", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: uuid.New().String(), UserID: user.ID, Name: "Lab Vida", Specialty: "Analises Clinicas", Address: "Av. Paulista 1000, Sao Paulo", Contact: "+55 11 99999-0003", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	for i := range professionals {
		if err := professionalRepo.Create(ctx, &professionals[i]); err != nil {
			log.Printf("Failed to create professional %s: %v", professionals[i].Name, err)
		}
	}

	// 3. Seed events through the service so conflict policy applies
	detector := scheduling.NewDetector(cfg.Scheduling.TravelGapMinutes)
	eventService := services.NewEventService(
		eventRepo,
		professionalRepo,
		auditRepo,
		nil,
		detector,
		cfg.Scheduling.TravelGapEnabled,
	)

	nextMonday := time.Now().AddDate(0, 0, (8-int(time.Now().Weekday()))%7+1).Format("2006-01-02")
	seedEvents := []entities.Event{
		{EventType: entities.EventTypeConsulta, Professional: "Dr. Carla Lima", EventDate: nextMonday, StartTime: "09:00", EndTime: "10:00", Notes: "Consulta de rotina"},
		{EventType: entities.EventTypeExame, Professional: "Lab Vida", EventDate: nextMonday, StartTime: "10:15", EndTime: "10:45", Instructions: "Jejum de 8 horas"},
		{EventType: entities.EventTypeConsulta, Professional: "Dr. Joao Pereira", EventDate: nextMonday, StartTime: "14:00", EndTime: "15:00"},
	}
	for i := range seedEvents {
		if _, err := eventService.CreateEvent(ctx, user.ID, &seedEvents[i], false); err != nil {
			log.Printf("Failed to create event with %s: %v", seedEvents[i].Professional, err)
		}
	}

	log.Println("Seed complete")
}
