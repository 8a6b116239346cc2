package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env carries everything that does not belong in the YAML document: secrets,
// operational overrides, and exporter wiring.
type Env struct {
	ConfigPath string `envconfig:"TRACKER_CONFIG" default:"tracker.yaml"`
	// Addr overrides server.addr from the document when set.
	Addr string `envconfig:"TRACKER_ADDR"`

	NewsAPIKey string `envconfig:"NEWS_API_KEY"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	UserAgent   string        `envconfig:"TRACKER_USER_AGENT" default:"WWDCTracker/1.0"`

	OTel OTelEnv `envconfig:"OTEL"`
}

// OTelEnv configures the trace exporter. Disabled by default; the tracker is
// fully functional without a collector.
type OTelEnv struct {
	Enabled     bool              `envconfig:"ENABLED" default:"false"`
	ServiceName string            `envconfig:"SERVICE_NAME" default:"wwdc-tracker"`
	Endpoint    string            `envconfig:"EXPORTER_OTLP_ENDPOINT"`
	Protocol    string            `envconfig:"EXPORTER_OTLP_PROTOCOL" default:"grpc"`
	Headers     map[string]string `envconfig:"EXPORTER_OTLP_HEADERS"`
	Insecure    bool              `envconfig:"EXPORTER_OTLP_INSECURE" default:"true"`
	SampleRatio float64           `envconfig:"TRACES_SAMPLE_RATIO" default:"1.0"`
}

// LoadEnv reads the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("load environment: %w", err)
	}
	if env.OTel.SampleRatio < 0 {
		env.OTel.SampleRatio = 0
	}
	if env.OTel.SampleRatio > 1 {
		env.OTel.SampleRatio = 1
	}
	return env, nil
}
