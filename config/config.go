package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/bracket-pool/brackets"
	"github.com/Dosada05/bracket-pool/models"
	"github.com/joho/godotenv"
)

const (
	defaultServerPort     = 8080
	defaultExportInterval = time.Hour
)

// Config holds every setting the service reads from the environment.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	Scoring          brackets.ScoringRules
	FinalFourPairing brackets.FinalFourPairing

	CurrentYear        int
	ExportInterval     time.Duration
	CORSAllowedOrigins []string
}

// R2Enabled reports whether standings exports have somewhere to go.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads configuration from environment variables, loading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intFromEnv("SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	scoring, err := scoringFromEnv()
	if err != nil {
		return nil, err
	}

	pairing := brackets.DefaultFinalFourPairing()
	if raw := os.Getenv("FINAL_FOUR_PAIRING"); raw != "" {
		pairing, err = ParseFinalFourPairing(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FINAL_FOUR_PAIRING: %w", err)
		}
	}

	year, err := intFromEnv("CURRENT_YEAR", time.Now().Year())
	if err != nil {
		return nil, err
	}

	interval := defaultExportInterval
	if raw := os.Getenv("EXPORT_INTERVAL"); raw != "" {
		if raw == "0" {
			interval = 0
		} else if interval, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid EXPORT_INTERVAL environment variable: %w", err)
		}
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = splitList(raw)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
		Scoring:            scoring,
		FinalFourPairing:   pairing,
		CurrentYear:        year,
		ExportInterval:     interval,
		CORSAllowedOrigins: origins,
	}

	return cfg, nil
}

func scoringFromEnv() (brackets.ScoringRules, error) {
	rules := brackets.DefaultScoringRules()

	if raw := os.Getenv("ROUND_POINTS"); raw != "" {
		points, err := ParseRoundPoints(raw)
		if err != nil {
			return rules, fmt.Errorf("invalid ROUND_POINTS: %w", err)
		}
		rules.RoundPoints = points
	}

	bonus, err := intFromEnv("UNDERDOG_BONUS", rules.UnderdogBonus)
	if err != nil {
		return rules, err
	}
	rules.UnderdogBonus = bonus

	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

// ParseRoundPoints reads six comma separated values, Round of 64 first.
func ParseRoundPoints(raw string) (map[brackets.Round]int, error) {
	parts := splitList(raw)
	if len(parts) != len(brackets.Rounds) {
		return nil, fmt.Errorf("expected %d values, got %d", len(brackets.Rounds), len(parts))
	}
	points := make(map[brackets.Round]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("value %q for %s is not a number", p, brackets.Rounds[i])
		}
		points[brackets.Rounds[i]] = v
	}
	return points, nil
}

// ParseFinalFourPairing reads "top_left:bottom_left,top_right:bottom_right".
func ParseFinalFourPairing(raw string) (brackets.FinalFourPairing, error) {
	var pairing brackets.FinalFourPairing
	pairs := splitList(raw)
	if len(pairs) != 2 {
		return pairing, fmt.Errorf("expected 2 pairs, got %d", len(pairs))
	}
	for i, pair := range pairs {
		sides := strings.Split(pair, ":")
		if len(sides) != 2 {
			return pairing, fmt.Errorf("pair %q must look like position:position", pair)
		}
		pairing[i] = [2]models.RegionPosition{
			models.RegionPosition(strings.TrimSpace(sides[0])),
			models.RegionPosition(strings.TrimSpace(sides[1])),
		}
	}
	if err := pairing.Validate(); err != nil {
		return pairing, err
	}
	return pairing, nil
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
