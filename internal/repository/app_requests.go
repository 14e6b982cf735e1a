// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storeforge/appcore/internal/domain/model"
)

// ErrNoAppRequests is returned when no app request has been stored yet.
var ErrNoAppRequests = errors.New("no app requests stored")

// AppRequestsRepository provides methods for app request persistence.
type AppRequestsRepository struct {
	collection *mongo.Collection
}

// NewAppRequestsRepository creates a new app requests repository.
func NewAppRequestsRepository(db *MongoDB) *AppRequestsRepository {
	return &AppRequestsRepository{
		collection: db.AppRequests,
	}
}

// Create inserts a new app request record.
func (r *AppRequestsRepository) Create(ctx context.Context, record *model.AppRequestRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// Latest returns the most recently stored app request.
func (r *AppRequestsRepository) Latest(ctx context.Context) (*model.AppRequestRecord, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})

	var record model.AppRequestRecord
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoAppRequests
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List queries stored app requests with filters, newest first.
func (r *AppRequestsRepository) List(ctx context.Context, opts model.AppRequestQueryOptions) ([]*model.AppRequestRecord, error) {
	filter := buildAppRequestFilter(opts)

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []*model.AppRequestRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts stored app requests matching the filters.
func (r *AppRequestsRepository) Count(ctx context.Context, opts model.AppRequestQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, buildAppRequestFilter(opts))
}

func buildAppRequestFilter(opts model.AppRequestQueryOptions) bson.M {
	filter := bson.M{}
	if opts.AppName != "" {
		filter["app_name"] = opts.AppName
	}
	if opts.StartTime != nil || opts.EndTime != nil {
		timeFilter := bson.M{}
		if opts.StartTime != nil {
			timeFilter["$gte"] = *opts.StartTime
		}
		if opts.EndTime != nil {
			timeFilter["$lte"] = *opts.EndTime
		}
		filter["created_at"] = timeFilter
	}
	return filter
}
