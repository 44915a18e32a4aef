package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	ServerConfig struct {
		Host            string
		Address         string
		DisableReqLogs  bool
		ShutdownTimeout time.Duration
		RequireAuth     bool
	}

	BackendConfig struct {
		BaseURL   string
		Timeout   time.Duration
		UserAgent string
	}

	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		WorkDir      string
		RollbarToken string
		DefaultTopic string
		Server       ServerConfig
		Backend      BackendConfig
	}
)

func init() {
	Conf = LoadConfig()
}

// LoadConfig reads the configuration from the environment.
// Variables are prefixed with the ENV name, e.g. DEV_BACKEND_BASEURL.
func LoadConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "EcoWaste Dashboard")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbar.token", "")
	v.SetDefault("quiz.defaultTopic", "recycling")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.requireAuth", true)
	v.SetDefault("backend.baseURL", "http://localhost:8080")
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("backend.userAgent", "ecowaste-dashboard/1.0")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		WorkDir:      workDir,
		RollbarToken: v.GetString("rollbar.token"),
		DefaultTopic: v.GetString("quiz.defaultTopic"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			RequireAuth:     v.GetBool("server.requireAuth"),
		},
		Backend: BackendConfig{
			BaseURL:   strings.TrimRight(v.GetString("backend.baseURL"), "/"),
			Timeout:   v.GetDuration("backend.timeout"),
			UserAgent: v.GetString("backend.userAgent"),
		},
	}
}
