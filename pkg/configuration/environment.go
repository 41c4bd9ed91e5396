package configuration

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/deskflow-io/deskflow/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"deskflow"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// IngestionOptions configure the export-ingestion pipeline.
type IngestionOptions struct {
	// SourceTimezone is the IANA zone inbound timestamps are interpreted in
	// when they carry no offset of their own.
	SourceTimezone string `env:"INGEST_SOURCE_TIMEZONE" envDefault:"UTC"`
	// PriorityCodes is the enumerated set of accepted priority values.
	PriorityCodes []string `env:"INGEST_PRIORITY_CODES" envSeparator:"," envDefault:"1 - Critical,2 - High,3 - Moderate,4 - Low,5 - Planning"`
	// ProgressEvery controls how many rows are processed between
	// upload-session progress writes.
	ProgressEvery int `env:"INGEST_PROGRESS_EVERY" envDefault:"50"`
}

func (i *IngestionOptions) Location() (*time.Location, error) {
	return time.LoadLocation(i.SourceTimezone)
}

type Configuration struct {
	Database  DatabaseOptions
	Ingestion IngestionOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath          string `env:"LOG_PATH" envDefault:""`

	logger *logrus.Logger
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Println("no .env files found, using environment variables only")
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	if c.LogPath != "" {
		c.logger, err = logging.FileLogger(level, c.LogPath)
		if err != nil {
			return err
		}
	} else {
		c.logger = logging.ConsoleLogger(level)
	}
	return nil
}

// Unload resets the loaded environment variables. Used on fatal startup
// errors so a retry starts from a clean slate.
func (c *Configuration) Unload() {
	for _, pair := range os.Environ() {
		if key, _, found := strings.Cut(pair, "="); found {
			if strings.HasPrefix(key, "DB_") || strings.HasPrefix(key, "INGEST_") {
				_ = os.Unsetenv(key)
			}
		}
	}
}
