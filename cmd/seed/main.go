package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"fixnear/internal/api"
	"fixnear/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type fixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type fixtureProvider struct {
	Name         string  `yaml:"name"`
	Service      string  `yaml:"service"`
	Location     string  `yaml:"location"`
	Price        float64 `yaml:"price"`
	WorkingHours string  `yaml:"working_hours"`
	OwnerEmail   string  `yaml:"owner_email"`
}

type fixtures struct {
	Users     []fixtureUser     `yaml:"users"`
	Providers []fixtureProvider `yaml:"providers"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		fixturesPath = flag.String("fixtures", "configs/fixtures.yaml", "path to fixtures.yaml")
		baseURL      = flag.String("base-url", "http://localhost:8080", "backend base URL")
	)
	flag.Parse()

	fx, err := loadFixtures(*fixturesPath)
	if err != nil {
		return err
	}

	client := api.NewClient(*baseURL, 15*time.Second, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return seed(ctx, client, fx, logger)
}

func loadFixtures(path string) (*fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var fx fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(fx.Users) == 0 {
		return nil, fmt.Errorf("no users in fixtures")
	}
	return &fx, nil
}

// seed pushes the fixture set through the API. Records the backend rejects
// (already-taken emails on a re-run, mostly) are skipped and logged; only
// an unreachable or unauthorized backend aborts the run.
func seed(ctx context.Context, client *api.Client, fx *fixtures, logger zerolog.Logger) error {
	// Sign everyone up first so provider profiles can link to accounts.
	userIDs := make(map[string]string, len(fx.Users))
	created := 0
	for _, u := range fx.Users {
		resp, err := client.Signup(ctx, u.Name, u.Email, u.Password)
		if err != nil {
			var se *api.StatusError
			if errors.As(err, &se) {
				logger.Warn().Str("email", u.Email).Str("reason", se.Message).Msg("Signup rejected, skipping")
				continue
			}
			return fmt.Errorf("signup %s: %w", u.Email, err)
		}
		if resp.Token == "" {
			logger.Warn().Str("email", u.Email).Str("reason", resp.Message).Msg("Signup rejected, skipping")
			continue
		}
		userIDs[u.Email] = resp.UserID
		created++
	}
	logger.Info().Int("created", created).Int("total", len(fx.Users)).Msg("Accounts seeded")

	seeded := 0
	for _, p := range fx.Providers {
		profile := &models.Provider{
			Name:         p.Name,
			Service:      p.Service,
			Location:     p.Location,
			Price:        p.Price,
			WorkingHours: p.WorkingHours,
			Available:    true,
			UserID:       userIDs[p.OwnerEmail],
		}
		if profile.UserID == "" {
			logger.Warn().Str("provider", p.Name).Str("owner", p.OwnerEmail).Msg("Owner account missing, skipping provider")
			continue
		}
		if _, err := client.CreateProvider(ctx, profile); err != nil {
			var se *api.StatusError
			if !errors.As(err, &se) {
				return fmt.Errorf("create provider %s: %w", p.Name, err)
			}
			logger.Warn().Str("provider", p.Name).Str("reason", se.Message).Msg("Provider rejected, skipping")
			continue
		}
		seeded++
	}
	logger.Info().Int("seeded", seeded).Int("total", len(fx.Providers)).Msg("Providers seeded")

	return nil
}
