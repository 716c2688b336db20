package environment

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type EnvConfig struct {
	NatsURL         string
	SubmSubject     string
	ProgressSubject string

	SqsResultQueueUrl string
	AwsRegion         string

	LanguagesFile string
	ExercisesDir  string

	LogLevel slog.Level
}

// ReadEnvConfig loads .env when present and assembles the worker
// configuration from environment variables.
func ReadEnvConfig() *EnvConfig {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	result := &EnvConfig{
		NatsURL:           getenv("NATS_URL", "nats://localhost:4222"),
		SubmSubject:       getenv("SUBM_SUBJECT", "runner.submissions"),
		ProgressSubject:   getenv("PROGRESS_SUBJECT", "runner.progress"),
		SqsResultQueueUrl: os.Getenv("SQS_RESULT_QUEUE_URL"),
		AwsRegion:         getenv("AWS_REGION", "eu-central-1"),
		LanguagesFile:     os.Getenv("LANGUAGES_FILE"),
		ExercisesDir:      getenv("EXERCISES_DIR", "exercises"),
		LogLevel:          slog.LevelInfo,
	}

	if os.Getenv("DEBUG") != "" {
		result.LogLevel = slog.LevelDebug
	}

	return result
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
