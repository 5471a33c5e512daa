// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"findtogether/internal/models"
	"findtogether/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seoul city centre; generated sightings scatter around it.
const (
	baseLat = 37.5665
	baseLng = 126.9780
)

// Options controls generated data volume.
type Options struct {
	Users           int
	Posts           int
	ReportsPerPost  int
	StandaloneCount int
}

// Seeder populates the database with plausible missing-subject data.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	reports  repository.ReportRepository
	petNames []string
	rng      *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:      db,
		users:   repository.NewUserRepository(db),
		posts:   repository.NewPostRepository(db),
		reports: repository.NewReportRepository(db),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seeded tables. Reports first; they reference posts.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{&models.Report{}, &models.Post{}, &models.User{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("seed: clearing %T: %w", model, err)
		}
	}
	return nil
}

// Run generates and persists users, posts with sighting reports, and
// standalone reports according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	users, err := s.seedUsers(ctx, opts.Users)
	if err != nil {
		return err
	}

	for i := 0; i < opts.Posts; i++ {
		author := users[s.rng.Intn(len(users))]
		post := s.buildPost(author)
		if err := s.posts.Create(ctx, post); err != nil {
			return fmt.Errorf("seed: creating post: %w", err)
		}

		for j := 0; j < s.rng.Intn(opts.ReportsPerPost+1); j++ {
			report := s.buildReport(post.LastSeenLocation)
			if err := s.posts.AppendReport(ctx, post.ID, report); err != nil {
				return fmt.Errorf("seed: appending report: %w", err)
			}
		}
	}

	for i := 0; i < opts.StandaloneCount; i++ {
		report := s.buildReport(models.Location{Lat: baseLat, Lng: baseLng})
		if err := s.reports.Create(ctx, report); err != nil {
			return fmt.Errorf("seed: creating standalone report: %w", err)
		}
	}

	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]*models.User, error) {
	if n <= 0 {
		n = 1
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("seed: hashing password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: gofakeit.Username(),
			Email:    fmt.Sprintf("seed-%d-%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("seed: creating user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) buildPost(author *models.User) *models.Post {
	lastSeen := time.Now().Add(-time.Duration(s.rng.Intn(14*24)) * time.Hour)
	return &models.Post{
		Name:         gofakeit.PetName(),
		Features:     gofakeit.Sentence(8),
		LastSeenTime: lastSeen.UTC().Format(time.RFC3339),
		LastSeenLocation: models.Location{
			Lat: baseLat + (s.rng.Float64()-0.5)*0.2,
			Lng: baseLng + (s.rng.Float64()-0.5)*0.2,
		},
		AuthorID:   author.ID,
		AuthorName: author.DisplayName(),
		CreatedAt:  lastSeen.Add(time.Duration(s.rng.Intn(120)) * time.Minute),
	}
}

func (s *Seeder) buildReport(near models.Location) *models.Report {
	sighted := time.Now().Add(-time.Duration(s.rng.Intn(7*24)) * time.Hour)
	return &models.Report{
		Lat:         near.Lat + (s.rng.Float64()-0.5)*0.02,
		Lng:         near.Lng + (s.rng.Float64()-0.5)*0.02,
		Time:        sighted.UTC().Format(time.RFC3339),
		Description: gofakeit.Sentence(10),
		AuthorName:  gofakeit.FirstName(),
	}
}

// Fixture is a YAML-described dataset for deterministic demo or test setups.
type Fixture struct {
	Posts []struct {
		Name         string          `yaml:"name"`
		Features     string          `yaml:"features"`
		LastSeenTime string          `yaml:"lastSeenTime"`
		Lat          float64         `yaml:"lat"`
		Lng          float64         `yaml:"lng"`
		AuthorName   string          `yaml:"authorName"`
		Reports      []FixtureReport `yaml:"reports"`
	} `yaml:"posts"`
	Reports []FixtureReport `yaml:"reports"`
}

// FixtureReport is one sighting entry in a fixture file.
type FixtureReport struct {
	Lat         float64 `yaml:"lat"`
	Lng         float64 `yaml:"lng"`
	Time        string  `yaml:"time"`
	Description string  `yaml:"description"`
	AuthorName  string  `yaml:"authorName"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: reading fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("seed: parsing fixture: %w", err)
	}
	return &fx, nil
}

// ApplyFixture persists a fixture's posts and reports. Fixture posts need an
// owning account, so one synthetic user is created per distinct author name.
func (s *Seeder) ApplyFixture(ctx context.Context, fx *Fixture) error {
	authors := map[string]*models.User{}
	authorFor := func(name string) (*models.User, error) {
		if name == "" {
			name = "fixture"
		}
		if u, ok := authors[name]; ok {
			return u, nil
		}
		user := &models.User{
			Username: name,
			Email:    fmt.Sprintf("%s-%d@fixture.local", name, len(authors)),
			Password: "fixture",
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("seed: creating fixture user: %w", err)
		}
		authors[name] = user
		return user, nil
	}

	for _, p := range fx.Posts {
		author, err := authorFor(p.AuthorName)
		if err != nil {
			return err
		}
		post := &models.Post{
			Name:             p.Name,
			Features:         p.Features,
			LastSeenTime:     p.LastSeenTime,
			LastSeenLocation: models.Location{Lat: p.Lat, Lng: p.Lng},
			AuthorID:         author.ID,
			AuthorName:       author.DisplayName(),
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return fmt.Errorf("seed: creating fixture post %q: %w", p.Name, err)
		}
		for _, r := range p.Reports {
			report := &models.Report{
				Lat:         r.Lat,
				Lng:         r.Lng,
				Time:        r.Time,
				Description: r.Description,
				AuthorName:  r.AuthorName,
			}
			if err := s.posts.AppendReport(ctx, post.ID, report); err != nil {
				return fmt.Errorf("seed: appending fixture report: %w", err)
			}
		}
	}

	for _, r := range fx.Reports {
		report := &models.Report{
			Lat:         r.Lat,
			Lng:         r.Lng,
			Time:        r.Time,
			Description: r.Description,
			AuthorName:  r.AuthorName,
		}
		if err := s.reports.Create(ctx, report); err != nil {
			return fmt.Errorf("seed: creating fixture report: %w", err)
		}
	}

	return nil
}
