package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Port             string
	DatabaseUser     string
	DatabasePassword string
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseSSLMode  string
	SessionKey       []byte
	JwtSigningKey    []byte
	Env              string // either prod or dev, dev disables https redirects and secure headers
	SiteName         string // Job site name, used in page titles and emails
	SiteHost         string // Job site hostname
	SupportEmail     string // displayed on the site for support queries
	URLProtocol      string
	SentryDSN        string
	JobsPerPage      int // configures how many jobs are shown on the browse page
	FunctionsURL     string // base url of the email function endpoint
	FunctionsKey     string // bearer credential for the email function endpoint
	SmtpHost         string
	SmtpPort         int
	SmtpUser         string
	SmtpPassword     string
	Storage          StorageConfig
}

type StorageConfig struct {
	Type      string // local, s3 or cloudflare_r2
	BasePath  string // local storage root
	BaseURL   string // public url prefix for stored files
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

func (c Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=%s",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

func (c Config) SiteURL() string {
	return fmt.Sprintf("%s://%s", c.URLProtocol, c.SiteHost)
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	functionsURL := strings.TrimSuffix(os.Getenv("FUNCTIONS_URL"), "/")
	if functionsURL == "" {
		return Config{}, fmt.Errorf("FUNCTIONS_URL cannot be empty")
	}
	functionsKey := os.Getenv("FUNCTIONS_KEY")
	if functionsKey == "" {
		return Config{}, fmt.Errorf("FUNCTIONS_KEY cannot be empty")
	}
	jobsPerPage := 20
	if jobsPerPageStr := os.Getenv("JOBS_PER_PAGE"); jobsPerPageStr != "" {
		jobsPerPage, err = strconv.Atoi(jobsPerPageStr)
		if err != nil {
			return Config{}, errors.Wrapf(err, "could not convert JOBS_PER_PAGE to int")
		}
	}
	smtpPort := 465
	if smtpPortStr := os.Getenv("SMTP_PORT"); smtpPortStr != "" {
		smtpPort, err = strconv.Atoi(smtpPortStr)
		if err != nil {
			return Config{}, errors.Wrapf(err, "could not convert SMTP_PORT to int")
		}
	}
	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local"
	}
	storageBasePath := os.Getenv("STORAGE_BASE_PATH")
	if storageBasePath == "" {
		storageBasePath = "./uploads"
	}
	urlProtocol := "https"
	if env == "dev" {
		urlProtocol = "http"
	}
	storageBaseURL := os.Getenv("STORAGE_BASE_URL")
	if storageBaseURL == "" && storageType == "local" {
		storageBaseURL = fmt.Sprintf("%s://%s/files", urlProtocol, siteHost)
	}

	return Config{
		Port:             port,
		DatabaseUser:     databaseUser,
		DatabasePassword: databasePassword,
		DatabaseHost:     databaseHost,
		DatabasePort:     databasePort,
		DatabaseName:     databaseName,
		DatabaseSSLMode:  databaseSSLMode,
		SessionKey:       sessionKeyBytes,
		JwtSigningKey:    jwtSigningKeyBytes,
		Env:              env,
		SiteName:         siteName,
		SiteHost:         siteHost,
		SupportEmail:     os.Getenv("SUPPORT_EMAIL"),
		URLProtocol:      urlProtocol,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		JobsPerPage:      jobsPerPage,
		FunctionsURL:     functionsURL,
		FunctionsKey:     functionsKey,
		SmtpHost:         os.Getenv("SMTP_HOST"),
		SmtpPort:         smtpPort,
		SmtpUser:         os.Getenv("SMTP_USER"),
		SmtpPassword:     os.Getenv("SMTP_PASSWORD"),
		Storage: StorageConfig{
			Type:      storageType,
			BasePath:  storageBasePath,
			BaseURL:   storageBaseURL,
			Bucket:    os.Getenv("STORAGE_BUCKET"),
			Region:    os.Getenv("STORAGE_REGION"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
		},
	}, nil
}
