package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"bookjourney/internal/book"
	"bookjourney/internal/config"
	"bookjourney/internal/isbn"
	"bookjourney/internal/journey"
	"bookjourney/internal/ledger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type stop struct {
	city, country string
	lat, lon      float64
}

var stops = []stop{
	{"Paris", "France", 48.8566, 2.3522},
	{"London", "United Kingdom", 51.5074, -0.1278},
	{"Berlin", "Germany", 52.5200, 13.4050},
	{"Lisbon", "Portugal", 38.7223, -9.1393},
	{"Oslo", "Norway", 59.9139, 10.7522},
	{"Rome", "Italy", 41.9028, 12.4964},
	{"Accra", "Ghana", 5.6037, -0.1870},
}

var titles = []struct{ isbn, title, author string }{
	{"9780306406157", "Waves", "V. Woolf"},
	{"0306406152", "Waves (paperback)", "V. Woolf"},
	{"080442957X", "Notes from a Small Island", "B. Bryson"},
}

var people = []string{"Ann", "Bob", "Chidi", "Dana", "Emil", "Farah"}

func main() {
	var (
		count = flag.Int("books", 10, "Number of books to register")
		hops  = flag.Int("hops", 4, "Custody hand-offs per book")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	var (
		bookRepo  book.Repository
		eventRepo ledger.Repository
	)
	if cfg.UsesPostgres() {
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to database (%s): %v", config.RedactDSN(cfg.DSN), err)
		}
		defer pool.Close()
		bookRepo = book.NewPostgresRepo(pool, cfg.DBTimeout)
		eventRepo = ledger.NewPostgresRepo(pool, cfg.DBTimeout)
	} else {
		log.Println("DB_DSN not set; seeding an in-memory store (dry run)")
		bookRepo = book.NewMemoryRepo()
		eventRepo = ledger.NewMemoryRepo()
	}

	books := book.NewService(bookRepo, nil, isbn.Validator{Formats: cfg.ISBNFormats}, nil)
	events := ledger.NewService(eventRepo, books, nil)
	journeys := journey.NewService(events)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()

	for i := 0; i < *count; i++ {
		t := titles[i%len(titles)]
		b, err := books.Create(ctx, book.NewParams{
			ISBN:    t.isbn,
			Title:   t.title,
			Author:  t.author,
			Creator: people[rng.Intn(len(people))],
		})
		if err != nil {
			log.Fatalf("Failed to register book %d: %v", i+1, err)
		}

		for h := 0; h < *hops; h++ {
			s := stops[rng.Intn(len(stops))]
			lat, lon := s.lat, s.lon
			for _, eventType := range []ledger.EventType{ledger.Found, ledger.Released} {
				_, err := events.ReportCustody(ctx, b.ID, ledger.ReportParams{
					Type:      string(eventType),
					Actor:     people[rng.Intn(len(people))],
					Latitude:  &lat,
					Longitude: &lon,
					City:      s.city,
					Country:   s.country,
				})
				if err != nil {
					log.Fatalf("Failed to report custody for %s: %v", b.ID, err)
				}
			}
		}

		stats, err := journeys.GetJourneyStatistics(ctx, b.ID)
		if err != nil {
			log.Fatalf("Failed to summarize %s: %v", b.ID, err)
		}
		log.Printf("seeded book_id=%s isbn=%s distance_km=%.1f cities=%d participants=%d",
			b.ID, b.ISBN, stats.DistanceKm, stats.Cities, stats.Participants)
	}

	log.Printf("Seeded %d books in %v", *count, time.Since(start))
}
