package remote

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_SURVEYS   = "surveys"
	COLLECTION_NAME_SURVEYORS = "surveyors"
)

type DBConfig struct {
	URI             string
	DBName          string
	Timeout         int
	IdleConnTimeout int
	MaxPoolSize     uint64
}

type DBConfigYaml struct {
	ConnectionStr    string `yaml:"connection_str"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	ConnectionPrefix string `yaml:"connection_prefix"`
	DBName           string `yaml:"db_name"`
	Timeout          int    `yaml:"timeout"`
	IdleConnTimeout  int    `yaml:"idle_conn_timeout"`
	MaxPoolSize      int    `yaml:"max_pool_size"`
}

// RemoteDBService accesses the remote document store. The store is a plain
// CRUD sink; every operation is allowed to fail and callers degrade to
// local-only operation.
type RemoteDBService struct {
	DBClient *mongo.Client
	timeout  int
	dbName   string
}

func NewRemoteDBService(configs DBConfig) (*RemoteDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()
	if err != nil {
		return nil, err
	}

	dbService := &RemoteDBService{
		DBClient: dbClient,
		timeout:  configs.Timeout,
		dbName:   configs.DBName,
	}

	if err := dbService.ensureIndexes(); err != nil {
		slog.Error("Error ensuring indexes for remote DB", slog.String("error", err.Error()))
	}

	return dbService, nil
}

func (dbService *RemoteDBService) collectionSurveys() *mongo.Collection {
	return dbService.DBClient.Database(dbService.dbName).Collection(COLLECTION_NAME_SURVEYS)
}

func (dbService *RemoteDBService) collectionSurveyors() *mongo.Collection {
	return dbService.DBClient.Database(dbService.dbName).Collection(COLLECTION_NAME_SURVEYORS)
}

func (dbService *RemoteDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *RemoteDBService) ensureIndexes() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionSurveyors().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_1"),
		},
	)
	if err != nil {
		slog.Error("Error creating index for surveyors.name", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionSurveys().Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "surveyorId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("surveyorId_createdAt_1"),
			},
			{
				// non-unique: repeated pushes of the same local record keep
				// append semantics, the index only supports dedup queries
				Keys: bson.D{
					{Key: "surveyorId", Value: 1},
					{Key: "localId", Value: 1},
				},
				Options: options.Index().SetName("surveyorId_localId_1"),
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for surveys", slog.String("error", err.Error()))
	}

	return nil
}
