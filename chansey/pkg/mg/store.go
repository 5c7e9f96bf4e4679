package mg

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"hv1/chansey/defs"
)

const SamplesCollection = "samples"

// SampleStore is the persistence surface the report pipeline reads from and
// the fetcher writes to. Samples are addressed by subject and day range;
// the engine itself never touches storage.
type SampleStore interface {
	ReplaceSamples(ctx context.Context, email, startDay, endDay string, samples []defs.RawSample) error
	ReadSamples(ctx context.Context, email, startDay, endDay string) ([]defs.RawSample, error)
}

type MongoStore struct {
	Client *mongo.Client
	Logger *zap.Logger

	DBName string
}

func New(ctx context.Context, cfg defs.MongoConfig, dbName string, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	return &MongoStore{
		Client: mongoClient,
		Logger: logger,
		DBName: dbName,
	}, nil
}

// ReplaceSamples swaps out the stored samples for a subject's day range with
// a fresh sync. Replacing the whole range keeps repeated syncs idempotent:
// a sample may legally repeat within a day, so per-sample upserts can't
// distinguish a duplicate from a re-sync.
func (ms *MongoStore) ReplaceSamples(ctx context.Context, email, startDay, endDay string, samples []defs.RawSample) error {
	ms.Logger.Debug("replacing samples",
		zap.String("email", email),
		zap.String("start", startDay),
		zap.String("end", endDay),
		zap.Int("count", len(samples)),
	)

	coll := ms.Client.Database(ms.DBName).Collection(SamplesCollection)

	filter := bson.M{
		"email": email,
		"day":   bson.M{"$gte": startDay, "$lte": endDay},
	}
	if _, err := coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("unable to clear sample range: %w", err)
	}

	if len(samples) == 0 {
		return nil
	}

	docs := make([]interface{}, len(samples))
	for i := range samples {
		docs[i] = samples[i]
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("unable to insert samples: %w", err)
	}

	return nil
}

func (ms *MongoStore) ReadSamples(ctx context.Context, email, startDay, endDay string) ([]defs.RawSample, error) {
	filter := bson.M{
		"email": email,
		"day":   bson.M{"$gte": startDay, "$lte": endDay},
	}

	cur, err := ms.Client.
		Database(ms.DBName).
		Collection(SamplesCollection).
		Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "day", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("unable to read samples: %w", err)
	}

	var samples []defs.RawSample
	if err := cur.All(ctx, &samples); err != nil {
		return nil, fmt.Errorf("unable to decode samples: %w", err)
	}

	ms.Logger.Debug("read samples",
		zap.String("email", email),
		zap.String("start", startDay),
		zap.String("end", endDay),
		zap.Int("count", len(samples)),
	)

	return samples, nil
}
