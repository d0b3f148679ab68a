package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	SessionSecret string
	JwtKey        []byte
	SQLitePath    string
	DatabaseName  string
	UploadDir     string
	TemplateDir   string
	QuotesURL     string
}

const defaultQuotesURL = "http://quotes.stormconsultancy.co.uk/random.json"

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; secrets may come from the environment.
	_ = godotenv.Load()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is not set")
	}

	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		databaseName = "pitchboard"
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join("data", fmt.Sprintf("%s.db", databaseName))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3008"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join("static", "images")
	}

	templateDir := os.Getenv("TEMPLATE_DIR")
	if templateDir == "" {
		templateDir = "templates"
	}

	quotesURL := os.Getenv("QUOTES_URL")
	if quotesURL == "" {
		quotesURL = defaultQuotesURL
	}

	return &Config{
		Port:          port,
		SessionSecret: sessionSecret,
		JwtKey:        []byte(jwtSecret),
		SQLitePath:    sqlitePath,
		DatabaseName:  databaseName,
		UploadDir:     uploadDir,
		TemplateDir:   templateDir,
		QuotesURL:     quotesURL,
	}, nil
}
