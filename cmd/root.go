package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "leadscore"
)

type Config struct {
	Server  *ServerConfig  `mapstructure:"server"`
	Scoring *ScoringConfig `mapstructure:"scoring"`
	AI      *AIConfig      `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

type ScoringConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type AIConfig struct {
	Provider        string        `mapstructure:"provider"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxOutputTokens int           `mapstructure:"max-output-tokens"`
	MaxLogLength    int           `mapstructure:"max-log-length"`
	Metrics         bool          `mapstructure:"metrics"`
	OpenAI          *OpenAIConfig `mapstructure:"openai"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base-url"`
	CircuitBreaker bool   `mapstructure:"circuit-breaker"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "leadscore ranks sales leads against a product offer with rules and an LLM intent classifier",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	if err := bindEnv(viper.GetViper()); err != nil {
		log.Fatalf("binding environment variables: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is leadscore.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read-timeout", 15*time.Second)
	v.SetDefault("server.write-timeout", 120*time.Second)
	v.SetDefault("scoring.concurrency", 4)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.timeout", 20*time.Second)
	v.SetDefault("ai.max-output-tokens", 150)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.metrics", true)
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.circuit-breaker", true)
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.addr":            "LEADSCORE_ADDR",
		"ai.provider":            "LEADSCORE_AI_PROVIDER",
		"ai.openai.api-key":      "OPENAI_API_KEY",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"ai.openai.model":        "OPENAI_MODEL",
		"ai.openai.base-url":     "OPENAI_BASE_URL",
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.gemini.model":        "GEMINI_MODEL",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

func initConfig() {
	// A missing .env is fine; values may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.OpenAI == nil {
		config.AI.OpenAI = &OpenAIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
