package docstore

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ajitpratap0/colseries/pkg/config"
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/logger"
	"github.com/ajitpratap0/colseries/pkg/metrics"
)

// MongoStore keeps documents in a MongoDB collection, one document per row
// buffer keyed by _id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
	retry      retryPolicy
	logger     *zap.Logger
}

// NewMongoStore connects to cfg.URI and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mongodb store requires a uri")
	}
	log = logger.OrGlobal(log).With(
		zap.String("driver", config.DriverMongo),
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to MongoDB")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping MongoDB")
	}

	log.Info("connected to MongoDB")

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    cfg.OperationTimeout,
		retry:      retryPolicy{retries: cfg.MaxRetries, backoff: cfg.RetryBackoff, logger: log},
		logger:     log,
	}, nil
}

func (s *MongoStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) Put(ctx context.Context, doc *Document) (err error) {
	defer func() { metrics.ObserveStore(config.DriverMongo, "put", err) }()

	if err := doc.Validate(); err != nil {
		return err
	}
	c := *doc
	c.UpdatedAt = time.Now().UTC()

	err = s.retry.do(ctx, "put", func(ctx context.Context) error {
		ctx, cancel := s.opContext(ctx)
		defer cancel()
		_, err := s.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, &c, options.Replace().SetUpsert(true))
		if err != nil {
			return errors.Wrap(err, classify(err), "failed to store document").WithDetail("document", c.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("stored document",
		zap.String("document", c.ID),
		zap.Int("height", c.Height),
		zap.Int("bytes", len(c.Rows)))
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (_ *Document, err error) {
	defer func() { metrics.ObserveStore(config.DriverMongo, "get", err) }()

	var doc Document
	err = s.retry.do(ctx, "get", func(ctx context.Context) error {
		ctx, cancel := s.opContext(ctx)
		defer cancel()
		if err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
			if stderrors.Is(err, mongo.ErrNoDocuments) {
				return notFound(id)
			}
			return errors.Wrap(err, classify(err), "failed to load document").WithDetail("document", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveStore(config.DriverMongo, "delete", err) }()

	return s.retry.do(ctx, "delete", func(ctx context.Context) error {
		ctx, cancel := s.opContext(ctx)
		defer cancel()
		res, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
		if err != nil {
			return errors.Wrap(err, classify(err), "failed to delete document").WithDetail("document", id)
		}
		if res.DeletedCount == 0 {
			return notFound(id)
		}
		return nil
	})
}

// List projects away the row bytes and counts fields server side.
func (s *MongoStore) List(ctx context.Context) (_ []Summary, err error) {
	defer func() { metrics.ObserveStore(config.DriverMongo, "list", err) }()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "height", Value: 1},
			{Key: "updated_at", Value: 1},
			{Key: "fields", Value: bson.D{{Key: "$size", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$schema.fields", bson.A{}}},
			}}}},
		}}},
	}
	var out []Summary
	err = s.retry.do(ctx, "list", func(ctx context.Context) error {
		ctx, cancel := s.opContext(ctx)
		defer cancel()
		cur, err := s.collection.Aggregate(ctx, pipeline)
		if err != nil {
			return errors.Wrap(err, classify(err), "failed to list documents")
		}
		out = []Summary{}
		if err := cur.All(ctx, &out); err != nil {
			return errors.Wrap(err, classify(err), "failed to read document list")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to disconnect from MongoDB")
	}
	s.logger.Info("disconnected from MongoDB")
	return nil
}

func classify(err error) errors.ErrorType {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return errors.ErrorTypeTimeout
	case mongo.IsNetworkError(err):
		return errors.ErrorTypeConnection
	default:
		return errors.ErrorTypeInternal
	}
}
