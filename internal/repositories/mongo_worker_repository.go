package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"domisafe/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MongoWorkerRepository keeps worker profiles in a MongoDB collection.
type MongoWorkerRepository struct {
	Collection *mongo.Collection
}

func NewMongoWorkerRepository(client *mongo.Client, database string) *MongoWorkerRepository {
	return &MongoWorkerRepository{
		Collection: client.Database(database).Collection("workers"),
	}
}

// buildMongoFilter pushes down the scalar criteria. Tag sets are matched in
// Go because $in compares case-sensitively.
func buildMongoFilter(f models.WorkerFilter) bson.M {
	filter := bson.M{
		"is_active":           true,
		"verification_status": string(models.VerificationApproved),
	}
	if f.Zone != "" {
		filter["zone"] = bson.M{"$regex": regexp.QuoteMeta(f.Zone), "$options": "i"}
	}
	if f.MinRating != nil {
		filter["average_rating"] = bson.M{"$gte": *f.MinRating}
	}
	if f.MaxHourlyRate != nil {
		filter["hourly_rate"] = bson.M{"$lte": *f.MaxHourlyRate}
	}
	return filter
}

func (r *MongoWorkerRepository) QueryByAttributes(ctx context.Context, f models.WorkerFilter) ([]models.WorkerProfile, error) {
	ctx, span := tracer.Start(ctx, "MongoWorkerRepository.QueryByAttributes")
	defer span.End()

	cursor, err := r.Collection.Find(ctx, buildMongoFilter(f))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find workers")
		return nil, fmt.Errorf("failed to find workers: %w", err)
	}
	defer cursor.Close(ctx)

	workers := make([]models.WorkerProfile, 0)
	for cursor.Next(ctx) {
		var w models.WorkerProfile
		if err := cursor.Decode(&w); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode worker")
			return nil, fmt.Errorf("failed to decode worker: %w", err)
		}
		if !MatchesFilter(f, w) {
			continue
		}
		workers = append(workers, w)
	}
	if err := cursor.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cursor error")
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	span.SetAttributes(attribute.Int("workers.count", len(workers)))
	return workers, nil
}

func (r *MongoWorkerRepository) GetByID(ctx context.Context, id string) (models.WorkerProfile, error) {
	ctx, span := tracer.Start(ctx, "MongoWorkerRepository.GetByID")
	defer span.End()

	var w models.WorkerProfile
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.WorkerProfile{}, models.ErrWorkerNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find worker")
		return models.WorkerProfile{}, fmt.Errorf("failed to find worker: %w", err)
	}
	return w, nil
}

func (r *MongoWorkerRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, span := tracer.Start(ctx, "MongoWorkerRepository.SetActive")
	defer span.End()

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update worker")
		return fmt.Errorf("failed to update worker: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrWorkerNotFound
	}
	return nil
}
