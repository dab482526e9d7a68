package types

import (
	"fmt"
	"time"

	// Embedded zone database so Location works on hosts without tzdata.
	_ "time/tzdata"
)

// ProjectMeta holds the [project] table of the configuration file.
type ProjectMeta struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

// ConversionBackend selects how the Markdown digest is turned into a PDF.
type ConversionBackend string

const (
	// BackendPandoc runs a pandoc binary found on PATH.
	BackendPandoc ConversionBackend = "pandoc"
	// BackendContainer runs pandoc inside a docker or podman container.
	BackendContainer ConversionBackend = "container"
)

// EmailConfig holds the SMTP delivery settings. Every field comes from the
// environment, never from the configuration file.
type EmailConfig struct {
	// Sender is the From address.
	Sender string `json:"sender" yaml:"sender"`

	// Receivers is the comma-separated list of To addresses.
	Receivers string `json:"receivers" yaml:"receivers"`

	// SMTPServer is the relay host name.
	SMTPServer string `json:"smtp_server" yaml:"smtp_server"`

	// SMTPPort is the relay port (default 587).
	SMTPPort int `json:"smtp_port" yaml:"smtp_port"`

	// SMTPUsername enables PLAIN auth when non-empty.
	SMTPUsername string `json:"smtp_username" yaml:"smtp_username"`
}

// AppConfig is the immutable settings snapshot built once at startup and
// passed to every component that needs it.
type AppConfig struct {
	// Timezone is an IANA location name (default "UTC"). It is not
	// resolved until Location is called.
	Timezone string `json:"timezone" yaml:"timezone"`

	// Query is the arXiv search_query expression (default "cat:cs.LG").
	Query string `json:"query" yaml:"query"`

	// ResearchInterests are the user's topics, in configured order.
	ResearchInterests []string `json:"research_interests" yaml:"research_interests"`

	// MaxResults caps the number of papers requested from arXiv (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// LLMModelName is the chat model identifier.
	LLMModelName string `json:"llm_model_name" yaml:"llm_model_name"`

	// LLMBaseURL overrides the provider endpoint. Empty means the provider default.
	LLMBaseURL string `json:"llm_base_url,omitempty" yaml:"llm_base_url,omitempty"`

	// OutputDir receives the rendered digest and its PDF (default "temp").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// StateFile is the processed-ID store location.
	StateFile string `json:"state_file" yaml:"state_file"`

	// LogFile is the append-only run log.
	LogFile string `json:"log_file" yaml:"log_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Converter selects the PDF conversion backend.
	Converter ConversionBackend `json:"converter" yaml:"converter"`

	// ContainerImage is the pandoc image used by BackendContainer.
	ContainerImage string `json:"container_image" yaml:"container_image"`

	Email EmailConfig `json:"email" yaml:"email"`
}

// Location resolves Timezone. An unknown name is reported here, at first
// use, rather than at load time.
func (c AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("resolving timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
