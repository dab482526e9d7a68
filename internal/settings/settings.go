// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings loads project metadata and application configuration from
// a TOML file plus environment variables.
package settings

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// appTable is the dotted path of the application table inside the file.
const appTable = "tool.arxiv_daily.app"

// Defaults for the [tool.arxiv_daily.app] table.
const (
	DefaultTimezone       = "UTC"
	DefaultQuery          = "cat:cs.LG"
	DefaultMaxResults     = 50
	DefaultLLMModel       = "gpt-5-mini"
	DefaultOutputDir      = "temp"
	DefaultStateFile      = "data/processed_ids.yaml"
	DefaultLogFile        = "logs/app.log"
	DefaultLogLevel       = "info"
	DefaultContainerImage = "pandoc/latex:latest"
	DefaultSMTPPort       = 587
)

// DefaultResearchInterests is used when the file lists none.
var DefaultResearchInterests = []string{"artificial intelligence"}

// envBindings maps config keys to the environment variables that feed them.
// Email settings are read from the environment only.
var envBindings = map[string]string{
	"email.sender":    "EMAIL_SENDER",
	"email.receivers": "EMAIL_RECEIVERS",
	"smtp.server":     "SMTP_SERVER",
	"smtp.port":       "SMTP_PORT",
	"smtp.username":   "SMTP_USERNAME",
}

// Load reads the configuration file at path. It fails when the file is
// missing, is not valid TOML, or holds a non-integer max_results or
// SMTP_PORT. Values are not otherwise checked for meaning; for example the
// timezone is resolved only by AppConfig.Location.
func Load(path string) (types.ProjectMeta, types.AppConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return types.ProjectMeta{}, types.AppConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return types.ProjectMeta{}, types.AppConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	// The file must not be able to supply email settings, so the env-backed
	// keys live outside the file's namespace and are read from a clean
	// instance that knows only the environment.
	env := viper.New()
	env.SetDefault("smtp.port", DefaultSMTPPort)
	for key, name := range envBindings {
		if err := env.BindEnv(key, name); err != nil {
			return types.ProjectMeta{}, types.AppConfig{}, fmt.Errorf("binding %s: %w", name, err)
		}
	}

	meta := types.ProjectMeta{
		Name:        v.GetString("project.name"),
		Version:     v.GetString("project.version"),
		Description: v.GetString("project.description"),
	}

	// An explicit empty list is kept; only an absent key gets the default.
	interests := append([]string(nil), DefaultResearchInterests...)
	if v.IsSet(appKey("research_interests")) {
		interests = append([]string{}, v.GetStringSlice(appKey("research_interests"))...)
	}

	maxResults, err := cast.ToIntE(v.Get(appKey("max_results")))
	if err != nil {
		return types.ProjectMeta{}, types.AppConfig{}, fmt.Errorf("parsing max_results in %s: %w", path, err)
	}
	smtpPort, err := cast.ToIntE(env.Get("smtp.port"))
	if err != nil {
		return types.ProjectMeta{}, types.AppConfig{}, fmt.Errorf("parsing %s: %w", envBindings["smtp.port"], err)
	}

	cfg := types.AppConfig{
		Timezone:          v.GetString(appKey("timezone")),
		Query:             v.GetString(appKey("query")),
		ResearchInterests: interests,
		MaxResults:        maxResults,
		LLMModelName:      v.GetString(appKey("llm_model_name")),
		LLMBaseURL:        v.GetString(appKey("llm_base_url")),
		OutputDir:         v.GetString(appKey("output_dir")),
		StateFile:         v.GetString(appKey("state_file")),
		LogFile:           v.GetString(appKey("log_file")),
		LogLevel:          v.GetString(appKey("log_level")),
		Converter:         types.ConversionBackend(v.GetString(appKey("converter"))),
		ContainerImage:    v.GetString(appKey("container_image")),
		Email: types.EmailConfig{
			Sender:       env.GetString("email.sender"),
			Receivers:    env.GetString("email.receivers"),
			SMTPServer:   env.GetString("smtp.server"),
			SMTPPort:     smtpPort,
			SMTPUsername: env.GetString("smtp.username"),
		},
	}

	return meta, cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(appKey("timezone"), DefaultTimezone)
	v.SetDefault(appKey("query"), DefaultQuery)
	v.SetDefault(appKey("max_results"), DefaultMaxResults)
	v.SetDefault(appKey("llm_model_name"), DefaultLLMModel)
	v.SetDefault(appKey("llm_base_url"), "")
	v.SetDefault(appKey("output_dir"), DefaultOutputDir)
	v.SetDefault(appKey("state_file"), DefaultStateFile)
	v.SetDefault(appKey("log_file"), DefaultLogFile)
	v.SetDefault(appKey("log_level"), DefaultLogLevel)
	v.SetDefault(appKey("converter"), string(types.BackendPandoc))
	v.SetDefault(appKey("container_image"), DefaultContainerImage)
}

func appKey(name string) string {
	return appTable + "." + name
}
