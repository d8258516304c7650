package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
)

const readingsCollection = "buoy_readings"

// timestampLayout is a fixed-width RFC 3339 form so the stored strings sort
// lexicographically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

type MongoReadingStore struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoConnection(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_ = client.Ping(ctx, readpref.Primary())

	return client, nil
}

func NewMongoReadingStore(client *mongo.Client, database string) (*MongoReadingStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db := client.Database(database)
	collection := db.Collection(readingsCollection)

	// Timestamps are fixed-width strings, so one ascending index serves both
	// the range filter and the newest-first sort.
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
	})

	return &MongoReadingStore{
		client:     client,
		db:         db,
		collection: collection,
	}, nil
}

// readingDoc is the persisted document shape. The timestamp field holds a
// sortable ISO-8601 string rather than a BSON date.
type readingDoc struct {
	ID                  string  `bson:"_id"`
	Timestamp           string  `bson:"timestamp"`
	GPSLatitude         float64 `bson:"gps_latitude"`
	GPSLongitude        float64 `bson:"gps_longitude"`
	BatteryPercentage   float64 `bson:"battery_percentage"`
	WaterTurbidity      float64 `bson:"water_turbidity"`
	WaterTemperature    float64 `bson:"water_temperature"`
	Humidity            float64 `bson:"humidity"`
	AirPressure         float64 `bson:"air_pressure"`
	DetectedObjectClass *string `bson:"detected_object_class,omitempty"`
}

func encodeDoc(r domain.Reading) readingDoc {
	return readingDoc{
		ID:                  r.ID,
		Timestamp:           r.Timestamp.UTC().Format(timestampLayout),
		GPSLatitude:         r.GPSLatitude,
		GPSLongitude:        r.GPSLongitude,
		BatteryPercentage:   r.BatteryPercentage,
		WaterTurbidity:      r.WaterTurbidity,
		WaterTemperature:    r.WaterTemperature,
		Humidity:            r.Humidity,
		AirPressure:         r.AirPressure,
		DetectedObjectClass: r.DetectedObjectClass,
	}
}

func decodeDoc(d readingDoc) (domain.Reading, error) {
	ts, err := time.Parse(timestampLayout, d.Timestamp)
	if err != nil {
		// Tolerate variable-precision strings written by other producers.
		ts, err = time.Parse(time.RFC3339Nano, d.Timestamp)
		if err != nil {
			return domain.Reading{}, fmt.Errorf("malformed timestamp %q: %w", d.Timestamp, err)
		}
	}
	return domain.Reading{
		ID:                  d.ID,
		Timestamp:           ts.UTC(),
		GPSLatitude:         d.GPSLatitude,
		GPSLongitude:        d.GPSLongitude,
		BatteryPercentage:   d.BatteryPercentage,
		WaterTurbidity:      d.WaterTurbidity,
		WaterTemperature:    d.WaterTemperature,
		Humidity:            d.Humidity,
		AirPressure:         d.AirPressure,
		DetectedObjectClass: d.DetectedObjectClass,
	}, nil
}

// rangeFilter builds the single timestamp range predicate. Both bounds share
// one bson.M so they can never overwrite one another.
func rangeFilter(q domain.HistoryQuery) bson.M {
	filter := bson.M{}
	ts := bson.M{}
	if q.Start != nil {
		ts["$gte"] = q.Start.UTC().Format(timestampLayout)
	}
	if q.End != nil {
		ts["$lte"] = q.End.UTC().Format(timestampLayout)
	}
	if len(ts) > 0 {
		filter["timestamp"] = ts
	}
	return filter
}

func (m *MongoReadingStore) Insert(ctx context.Context, r domain.Reading) error {
	if _, err := m.collection.InsertOne(ctx, encodeDoc(r)); err != nil {
		return &domain.StorageError{Op: "insert", Err: err}
	}
	return nil
}

func (m *MongoReadingStore) InsertBatch(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	docs := make([]interface{}, len(readings))
	for i, r := range readings {
		docs[i] = encodeDoc(r)
	}

	opts := options.InsertMany().SetOrdered(false)
	if _, err := m.collection.InsertMany(ctx, docs, opts); err != nil {
		return &domain.StorageError{Op: "insert batch", Err: err}
	}
	return nil
}

func (m *MongoReadingStore) Latest(ctx context.Context) (domain.Reading, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var doc readingDoc
	err := m.collection.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Reading{}, domain.ErrNoReadings
	}
	if err != nil {
		return domain.Reading{}, &domain.StorageError{Op: "find latest", Err: err}
	}
	return decodeDoc(doc)
}

func (m *MongoReadingStore) Find(ctx context.Context, q domain.HistoryQuery) ([]domain.Reading, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cursor, err := m.collection.Find(ctx, rangeFilter(q), opts)
	if err != nil {
		return nil, &domain.StorageError{Op: "find", Err: err}
	}
	defer cursor.Close(ctx)

	var docs []readingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &domain.StorageError{Op: "find decode", Err: err}
	}

	readings := make([]domain.Reading, 0, len(docs))
	for _, d := range docs {
		r, err := decodeDoc(d)
		if err != nil {
			return nil, &domain.StorageError{Op: "find decode", Err: err}
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func (m *MongoReadingStore) Count(ctx context.Context, q domain.HistoryQuery) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, rangeFilter(q))
	if err != nil {
		return 0, &domain.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func (m *MongoReadingStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, &domain.StorageError{Op: "delete all", Err: err}
	}
	return res.DeletedCount, nil
}

func (m *MongoReadingStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
