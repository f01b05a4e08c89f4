// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jovianatlas/moonatlas/core"
)

// Defaults for everything that is not a credential.
const (
	DefaultIndexName      = "jupitermoons-2"
	DefaultNamespace      = "moonvector"
	DefaultCloud          = "aws"
	DefaultRegion         = "us-east-1"
	DefaultChatModel      = "gpt-4"
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultDimension      = 1536
	DefaultTemperature    = 0.0
	DefaultTopK           = 5
	DefaultListenAddr     = ":8000"
	DefaultBatchSize      = 100
	DefaultEnvironment    = "production"
)

// Config is the single configuration surface for every entrypoint. One
// structure, loaded once; the serve, ingest, and review commands all read
// from it.
type Config struct {
	// OpenAI
	OpenAIKey      string
	OpenAIBaseURL  string
	ChatModel      string
	EmbeddingModel string
	Dimension      int
	Temperature    float64

	// Pinecone
	PineconeKey string
	IndexName   string
	Namespace   string
	Cloud       string
	Region      string

	// Retrieval
	TopK int

	// Serving
	ListenAddr  string
	CORSOrigins []string

	// Ingestion
	BatchSize int
	CacheDir  string

	// Telemetry. Disabled when TelemetryEnabled is false; the service
	// still runs.
	TelemetryEnabled bool
	OTLPEndpoint     string
	OTLPInsecure     bool
	Environment      string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; its absence is not an
// error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIKey:      getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getenv("OPENAI_BASE_URL", ""),
		ChatModel:      getenv("CHAT_MODEL", DefaultChatModel),
		EmbeddingModel: getenv("EMBEDDING_MODEL", DefaultEmbeddingModel),
		Dimension:      DefaultDimension,
		PineconeKey:    getenv("PINECONE_API_KEY", ""),
		IndexName:      getenv("PINECONE_INDEX_NAME", DefaultIndexName),
		Namespace:      getenv("PINECONE_NAMESPACE", DefaultNamespace),
		Cloud:          getenv("PINECONE_CLOUD", DefaultCloud),
		Region:         getenv("PINECONE_REGION", DefaultRegion),
		ListenAddr:     getenv("LISTEN_ADDR", DefaultListenAddr),
		CacheDir:       getenv("CACHE_DIR", ""),
		OTLPEndpoint:   getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:   isTruthy(getenv("OTEL_EXPORTER_OTLP_INSECURE", "")),
		Environment:    getenv("ENVIRONMENT", DefaultEnvironment),
	}

	cfg.TelemetryEnabled = isTruthy(getenv("OTEL_ENABLED", ""))

	var err error
	if cfg.Temperature, err = floatVar("TEMPERATURE", DefaultTemperature); err != nil {
		return nil, err
	}
	if cfg.TopK, err = intVar("TOP_K", DefaultTopK); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = intVar("EMBED_BATCH_SIZE", DefaultBatchSize); err != nil {
		return nil, err
	}

	if origins := getenv("CORS_ORIGINS", ""); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a process. Telemetry
// settings are never validated here: a missing collector degrades to
// disabled telemetry, not a startup failure.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY is not set", core.ErrConfiguration)
	}
	if c.PineconeKey == "" {
		return fmt.Errorf("%w: PINECONE_API_KEY is not set", core.ErrConfiguration)
	}
	if c.IndexName == "" {
		return fmt.Errorf("%w: index name cannot be empty", core.ErrConfiguration)
	}
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace cannot be empty", core.ErrConfiguration)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: TOP_K must be positive, got %d", core.ErrConfiguration, c.TopK)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: EMBED_BATCH_SIZE must be positive, got %d", core.ErrConfiguration, c.BatchSize)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: TEMPERATURE must be in [0, 2], got %g", core.ErrConfiguration, c.Temperature)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func intVar(key string, fallback int) (int, error) {
	raw := getenv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", core.ErrConfiguration, key, raw)
	}
	return n, nil
}

func floatVar(key string, fallback float64) (float64, error) {
	raw := getenv(key, "")
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", core.ErrConfiguration, key, raw)
	}
	return f, nil
}
