package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/planning-board/internal/workcal"
)

// DayMode selects the board's interval partition.
type DayMode string

const (
	// DayModeHalf splits every day into morning and afternoon intervals.
	DayModeHalf DayMode = "half"
	// DayModeFull treats every day as a single interval.
	DayModeFull DayMode = "full"
)

// Config captures environment driven configuration values for the planning
// board service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	Mode           DayMode
	Holidays       []time.Time
	Closures       []time.Time
	BoardCacheSize int
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; invalid values are
// collected and reported together with localized error messages.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:planning.db?_foreign_keys=on",
		Mode:           DayModeHalf,
		BoardCacheSize: 128,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PLANNING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PLANNING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PLANNING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if mode := strings.TrimSpace(os.Getenv("PLANNING_DAY_MODE")); mode != "" {
		switch DayMode(mode) {
		case DayModeHalf, DayModeFull:
			cfg.Mode = DayMode(mode)
		default:
			invalid = append(invalid, "PLANNING_DAY_MODE")
		}
	}

	if value := strings.TrimSpace(os.Getenv("PLANNING_HOLIDAYS")); value != "" {
		dates, err := parseDateList(value)
		if err != nil {
			invalid = append(invalid, "PLANNING_HOLIDAYS")
		} else {
			cfg.Holidays = dates
		}
	}

	if value := strings.TrimSpace(os.Getenv("PLANNING_CLOSURES")); value != "" {
		dates, err := parseDateList(value)
		if err != nil {
			invalid = append(invalid, "PLANNING_CLOSURES")
		} else {
			cfg.Closures = dates
		}
	}

	if value := strings.TrimSpace(os.Getenv("PLANNING_BOARD_CACHE_SIZE")); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			invalid = append(invalid, "PLANNING_BOARD_CACHE_SIZE")
		} else {
			cfg.BoardCacheSize = size
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variables d'environnement invalides : %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// parseDateList parses a comma separated list of calendar dates.
func parseDateList(value string) ([]time.Time, error) {
	parts := strings.Split(value, ",")
	dates := make([]time.Time, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		date, err := time.ParseInLocation(workcal.DayKeyLayout, part, time.Local)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, nil
}
