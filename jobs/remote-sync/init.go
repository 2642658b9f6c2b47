package main

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/censo-resguardo/censo-backend/pkg/db/remote"
	"github.com/censo-resguardo/censo-backend/pkg/geolocation"
	"github.com/censo-resguardo/censo-backend/pkg/localstore"
	"github.com/censo-resguardo/censo-backend/pkg/utils"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_REMOTE_DB_USERNAME = "REMOTE_DB_USERNAME"
	ENV_REMOTE_DB_PASSWORD = "REMOTE_DB_PASSWORD"
)

type RemoteSyncConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Path of the device-local sqlite store
	LocalStorePath string `json:"local_store_path" yaml:"local_store_path"`

	// Path of the questionnaire CSV; optional, used for progress totals
	CatalogPath string `json:"catalog_path" yaml:"catalog_path"`

	// Surveyor name to reconcile when the local store has no identity yet
	SurveyorName string `json:"surveyor_name" yaml:"surveyor_name"`

	// Device geolocation bridge; optional, used to backfill missing fixes
	Geolocation geolocation.ClientConfigYaml `json:"geolocation" yaml:"geolocation"`

	// DB config
	RemoteDB remote.DBConfigYaml `json:"remote_db" yaml:"remote_db"`
}

var (
	conf RemoteSyncConfig

	localStore      *localstore.Store
	remoteDBService *remote.RemoteDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	// Init local store
	localStore, err = localstore.Open(conf.LocalStorePath)
	if err != nil {
		slog.Error("Error opening local store", slog.String("path", conf.LocalStorePath), slog.String("error", err.Error()))
		panic(err)
	}

	// Init remote DB; a failure here means offline mode, not a crash
	remoteDBService, err = remote.NewRemoteDBService(remote.DBConfigFromYamlObj(conf.RemoteDB))
	if err != nil {
		slog.Warn("Remote DB unreachable, running in offline mode", slog.String("error", err.Error()))
		remoteDBService = nil
	}
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_REMOTE_DB_USERNAME); dbUsername != "" {
		conf.RemoteDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_REMOTE_DB_PASSWORD); dbPassword != "" {
		conf.RemoteDB.Password = dbPassword
	}
}
