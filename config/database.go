package config

import (
	"strings"
	"time"

	"farmertwin/utils"
)

// Supported credential store backends, selected by the DATABASE_URL scheme.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type DatabaseConfig struct {
	URL             string
	Driver          string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	UsersCollection string
	RetryWrites     bool
}

func LoadDatabaseConfig() DatabaseConfig {
	url := utils.GetEnvAsString("DATABASE_URL", "")
	return DatabaseConfig{
		URL:             url,
		Driver:          driverFromURL(url),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "farmer_twin"),
		UsersCollection: utils.GetEnvAsString("USERS_COLLECTION", "users"),
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
	}
}

func driverFromURL(url string) string {
	switch {
	case url == "":
		return DriverMemory
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	default:
		return DriverMemory
	}
}
