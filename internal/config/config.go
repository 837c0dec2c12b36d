package config

import "os"

type Config struct {
	Port     string
	DBDriver string
	DBDSN    string
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	driver := os.Getenv("CARRIERWATCH_DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	dsn := os.Getenv("CARRIERWATCH_DB_DSN")
	if dsn == "" {
		dsn = "carrierwatch.db"
	}
	return Config{
		Port:     port,
		DBDriver: driver,
		DBDSN:    dsn,
	}
}
