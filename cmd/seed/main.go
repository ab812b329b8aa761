package main

import (
	"context"
	"database/sql"
	"doctor-booking/internal/auth"
	"doctor-booking/internal/configs"
	"doctor-booking/internal/database"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

var (
	configPath   = flag.String("config", "", "Config file path")
	doctorCount  = flag.Int("doctors", 10, "Number of doctors to seed")
	patientCount = flag.Int("patients", 50, "Number of patients to seed")
	password     = flag.String("password", "changeme", "Password shared by every seeded user")
)

// defaultSchedule is the weekly template every seeded doctor starts with.
const defaultSchedule = `{"monday": ["09:00-12:00", "14:00-17:00"], "tuesday": ["09:00-12:00", "14:00-17:00"], "wednesday": ["09:00-12:00"], "thursday": ["09:00-12:00", "14:00-17:00"], "friday": ["09:00-12:00", "14:00-16:00"]}`

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
}

func main() {
	flag.Parse()
	if *configPath == "" {
		log.Fatal("no config file path was given")
	}
	config, err := configs.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	dbConn, err := database.NewConnection(config)
	if err != nil {
		log.Fatal(err)
	}
	defer dbConn.Close()

	gofakeit.Seed(time.Now().UnixNano())

	passHash, err := auth.EncryptPassword(*password)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err = seedDoctors(ctx, dbConn.DB(), *doctorCount, passHash); err != nil {
		log.Fatalf("could not seed doctors: %v", err)
	}
	if err = seedPatients(ctx, dbConn.DB(), *patientCount, passHash); err != nil {
		log.Fatalf("could not seed patients: %v", err)
	}

	log.Printf("seeded %d doctors and %d patients", *doctorCount, *patientCount)
}

func seedDoctors(ctx context.Context, db *sql.DB, count int, passHash string) error {
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("doctor%d@clinic.com", i+1)
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]

		userID, err := insertUser(ctx, db, email, passHash, auth.DoctorRole)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			"INSERT INTO tb_doctor (uuid, user_id, name, specialty, schedule) VALUES ($1, $2, $3, $4, $5)",
			uuid.New().String(), userID, name, specialty, defaultSchedule)
		if err != nil {
			return err
		}
	}
	log.Printf("doctors seeded: %d", count)
	return nil
}

func seedPatients(ctx context.Context, db *sql.DB, count int, passHash string) error {
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("patient%d@clinic.com", i+1)

		userID, err := insertUser(ctx, db, email, passHash, auth.PatientRole)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			"INSERT INTO tb_patient (uuid, user_id, name) VALUES ($1, $2, $3)",
			uuid.New().String(), userID, name)
		if err != nil {
			return err
		}
	}
	log.Printf("patients seeded: %d", count)
	return nil
}

func insertUser(ctx context.Context, db *sql.DB, email string, passHash string, role auth.Role) (int64, error) {
	var userID int64
	err := db.QueryRowContext(ctx,
		"INSERT INTO tb_user (uuid, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id",
		uuid.New().String(), email, passHash, string(role)).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}
