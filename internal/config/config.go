package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Extract
	SourceBackend string // "csv" or "sheet"
	InputPath     string

	// Load
	SinkBackend  string // "csv" or "sqlite"
	OutputDir    string
	SQLiteDBPath string

	// Google Sheets source
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// AMQP run events (optional, enabled when URL is set)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		SourceBackend: getEnv("SOURCE_BACKEND", "csv"),
		InputPath:     getEnv("INPUT_PATH", "./sample_data.csv"),

		SinkBackend:  getEnv("SINK_BACKEND", "csv"),
		OutputDir:    getEnv("OUTPUT_DIR", "./out"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/txnetl.db"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "txnetl"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "run_events"),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	switch c.SourceBackend {
	case "csv":
		if c.InputPath == "" {
			errors = append(errors, "input path cannot be empty when using csv source")
		}
	case "sheet":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheet source")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid source backend '%s': must be one of [csv sheet]", c.SourceBackend))
	}

	switch c.SinkBackend {
	case "csv":
		if c.OutputDir == "" {
			errors = append(errors, "output directory cannot be empty when using csv sink")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite sink")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid sink backend '%s': must be one of [csv sqlite]", c.SinkBackend))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
