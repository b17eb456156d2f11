package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | memory
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
		MaxOpenConns  int
	}

	Config struct {
		Debug              bool
		TestMode           bool
		Env                string
		Build              string
		AppName            string
		SecretKey          string
		Timezone           string
		RollbarToken       string
		SendgridAPIKey     string
		DefaultFromEmail   string
		WorkDir            string
		JWTExpirationDelta time.Duration
		Server             ServerConfig
		Database           DatabaseConfig

		location *time.Location
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

// Location returns the time zone used for calendar days and wall-clock scan times.
func (conf *Config) Location() *time.Location {
	if conf.location == nil {
		return time.Local
	}
	return conf.location
}

// NewConfig reads the configuration from env vars (optionally loaded from `config/.env.<env>`).
// Env var names are prefixed with the upper-cased env, eg. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "EduScan")
	v.SetDefault("secretKey", "k3y-9o(zx+vh&0!nf^bb1$y0c4u@tq=6lds^s%w8#)pgi5m7r")
	v.SetDefault("timezone", "Local")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("jwtExpirationDelta", 365*24*time.Hour)

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "eduscan")
	v.SetDefault("database.password", "eduscan")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.name", "eduscan")
	v.SetDefault("database.disableTls", true)
	v.SetDefault("database.maxOpenConns", 25)

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

	conf := &Config{
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		Env:                env,
		Build:              v.GetString("build"),
		AppName:            v.GetString("appName"),
		SecretKey:          v.GetString("secretKey"),
		Timezone:           v.GetString("timezone"),
		RollbarToken:       v.GetString("rollbarToken"),
		SendgridAPIKey:     v.GetString("sendgridApiKey"),
		DefaultFromEmail:   v.GetString("defaultFromEmail"),
		WorkDir:            workDir,
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTls"),
			MaxOpenConns:  v.GetInt("database.maxOpenConns"),
		},
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		log.Fatal(fmt.Sprintf("config.LoadLocation(%s): %v", conf.Timezone, err))
	}
	conf.location = loc
	return conf
}

// NewTestConfig returns a Config suitable for tests: memory storage, no external services.
func NewTestConfig(loc *time.Location) *Config {
	if loc == nil {
		loc = time.UTC
	}
	return &Config{
		TestMode:           true,
		Env:                "TEST",
		Build:              "test",
		AppName:            "EduScan",
		SecretKey:          "test-secret",
		Timezone:           loc.String(),
		DefaultFromEmail:   "noreply@localhost",
		JWTExpirationDelta: time.Hour,
		Server:             ServerConfig{ShutdownTimeout: time.Second},
		Database:           DatabaseConfig{Engine: "memory"},
		location:           loc,
	}
}
