// Command seed populates the database with demo posters, workers, jobs and
// notifications. Accounts are upserted by email so it can be re-run.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dwjc/job-connector/internal/core/domain"
	mongodb "github.com/dwjc/job-connector/internal/infrastructure/db/mongo"
	"github.com/dwjc/job-connector/internal/pkg/config"
	"github.com/dwjc/job-connector/pkg/logger"
)

const seedPassword = "Password123!"

type seedUser struct {
	name, email, role string
	wallet            float64
}

var seedUsers = []seedUser{
	{"Alice Johnson", "alice@example.com", domain.RolePoster, 120.5},
	{"Bob Smith", "bob@example.com", domain.RolePoster, 340.0},
	{"Clara Lee", "clara@example.com", domain.RolePoster, 75.25},
	{"Ravi Kumar", "ravi@example.com", domain.RoleWorker, 58.0},
	{"Fatima Noor", "fatima@example.com", domain.RoleWorker, 214.7},
	{"Diego Morales", "diego@example.com", domain.RoleWorker, 132.3},
}

type seedJob struct {
	title, description string
	wage               float64
	location           string
}

var seedJobs = []seedJob{
	{"House Painting", "Paint two bedrooms and a hallway. Materials provided.", 120, "Salt Lake Kolkata"},
	{"Garden Cleanup", "Remove weeds, trim hedges and bag green waste.", 60, "Baner Pune"},
	{"Furniture Assembly", "Assemble a wardrobe, a bed frame and two side tables.", 45, "HSR Layout Bengaluru"},
	{"Appliance Installation", "Install a washing machine and a microwave.", 70, "Gachibowli Hyderabad"},
	{"Warehouse Helper", "Load and unload boxes for a day shift.", 55, "Okhla New Delhi"},
	{"Event Setup Crew", "Set up chairs, stage and lighting for an evening event.", 80, "Park Street Kolkata"},
	{"Cleaning Service", "Deep clean a two bedroom apartment.", 50, "Andheri West Mumbai"},
	{"Basic Electrical Work", "Replace switches and fit new light fixtures.", 40, "Velachery Chennai"},
	{"Office Errand Runner", "Deliver documents and pick up supplies around the city.", 35, "Connaught Place New Delhi"},
	{"Car Wash and Polish", "Wash, wax and vacuum two cars.", 30, "Kothrud Pune"},
	{"Plumbing Assistance", "Help fix a leaking sink and replace a tap.", 50, "Whitefield Bengaluru"},
	{"Roof Repair Helper", "Assist with patching roof tiles.", 65, "Madhapur Hyderabad"},
	{"Store Inventory Count", "Count and record stock in a small retail store.", 45, "T Nagar Chennai"},
	{"Courier Pickup/Drop", "Pick up and drop parcels across three locations.", 25, "Bandra Mumbai"},
	{"Gardening - New Plants", "Plant saplings and prepare flower beds.", 70, "Aundh Pune"},
	{"Home Shifting Helper", "Pack and move household items to a new flat.", 90, "Koramangala Bengaluru"},
	{"Wedding Hall Cleanup", "Clean the hall after a wedding reception.", 85, "Nungambakkam Chennai"},
	{"Small Painting Touch-ups", "Touch up scuffed walls and door frames.", 35, "Jubilee Hills Hyderabad"},
	{"AC Filter Cleaning", "Clean filters on three split AC units.", 55, "Powai Mumbai"},
	{"Kitchen Exhaust Cleaning", "Degrease a kitchen chimney and exhaust fan.", 50, "Salt Lake Kolkata"},
}

func main() {
	reset := flag.Bool("reset", false, "delete existing users, jobs, wishlists and notifications first")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "dwjc-seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, *reset, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, reset bool, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	notifications := mongodb.NewNotificationRepository(db)
	wishlists := mongodb.NewWishlistRepository(db)

	if reset {
		for name, wipe := range map[string]func(context.Context) error{
			"users":         users.DeleteAll,
			"jobs":          jobs.DeleteAll,
			"notifications": notifications.DeleteAll,
			"wishlists":     wishlists.DeleteAll,
		} {
			if err := wipe(ctx); err != nil {
				return fmt.Errorf("reset %s: %w", name, err)
			}
		}
		log.Info().Msg("collections cleared")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var posters, workers []string
	for _, u := range seedUsers {
		id, err := users.UpsertByEmail(ctx, &domain.User{
			Name:          u.name,
			Email:         u.email,
			PasswordHash:  string(hash),
			Role:          u.role,
			WalletBalance: u.wallet,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}
		if u.role == domain.RoleWorker {
			workers = append(workers, id)
		} else {
			posters = append(posters, id)
		}
	}
	log.Info().Int("posters", len(posters)).Int("workers", len(workers)).Msg("users upserted")

	var pending []*domain.Notification
	for idx, tpl := range seedJobs {
		deadline := now.AddDate(0, 0, 3+idx%10)
		job := &domain.Job{
			Title:       tpl.title,
			Description: tpl.description,
			Wage:        tpl.wage,
			Location:    tpl.location,
			Deadline:    &deadline,
			Status:      domain.JobOpen,
			PostedBy:    posters[idx%len(posters)],
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		switch {
		case idx >= 14:
			completed := now.AddDate(0, 0, -(idx - 13))
			job.Status = domain.JobCompleted
			job.AppliedBy = workers[idx%len(workers)]
			job.CompletedAt = &completed
		case idx >= 7:
			job.Status = domain.JobActive
			job.AppliedBy = workers[idx%len(workers)]
		}

		if err := jobs.Create(ctx, job); err != nil {
			return fmt.Errorf("create job %q: %w", job.Title, err)
		}

		switch job.Status {
		case domain.JobActive:
			pending = append(pending, &domain.Notification{
				Type:        domain.NotificationApplication,
				Message:     "You have been assigned to job: " + job.Title,
				RecipientID: job.AppliedBy,
				CreatedAt:   now,
			})
		case domain.JobCompleted:
			pending = append(pending, &domain.Notification{
				Type:        domain.NotificationCompleted,
				Message:     fmt.Sprintf("Job completed: %s. Please review payment.", job.Title),
				RecipientID: job.PostedBy,
				CreatedAt:   now,
			})
		}
	}

	if err := notifications.InsertMany(ctx, pending); err != nil {
		return err
	}

	log.Info().
		Int("jobs", len(seedJobs)).
		Int("notifications", len(pending)).
		Str("password", seedPassword).
		Msg("seed complete")
	return nil
}
