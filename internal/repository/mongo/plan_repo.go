package mongo

import (
	"context"
	"errors"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository using MongoDB.
// The whole plan aggregate (days and their exercises) lives in one
// document, so saving it after a mutation is a single atomic write.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new workout plan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.TrainerID == primitive.NilObjectID || plan.MemberID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires trainerId and memberId")
	}

	plan.ID = primitive.NewObjectID()
	plan.UUID = uuid.NewString()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Status == "" {
		plan.Status = domain.PlanDraft
	}
	if plan.Days == nil {
		plan.Days = []domain.WorkoutDay{}
	}

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, notDeleted(bson.M{"_id": id}))
}

// GetByDayID resolves the plan that owns the given embedded day.
func (r *mongoPlanRepository) GetByDayID(ctx context.Context, dayID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, notDeleted(bson.M{"days._id": dayID}))
}

func (r *mongoPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *mongoPlanRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.findMany(ctx, notDeleted(bson.M{"trainerId": trainerID}))
}

func (r *mongoPlanRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.findMany(ctx, notDeleted(bson.M{"memberId": memberID}))
}

func (r *mongoPlanRepository) GetActiveByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return r.findMany(ctx, notDeleted(bson.M{"memberId": memberID, "status": domain.PlanActive}))
}

func (r *mongoPlanRepository) CountActiveByMemberID(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, notDeleted(bson.M{"memberId": memberID, "status": domain.PlanActive}))
}

func (r *mongoPlanRepository) findMany(ctx context.Context, filter bson.M) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update writes the plan's mutable fields, including the full day list.
// One document, one write: the owning-collection update and whatever
// triggered it cannot half-apply.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	plan.UpdatedAt = time.Now().UTC()

	filter := notDeleted(bson.M{"_id": plan.ID})
	update := bson.M{"$set": bson.M{
		"name":        plan.Name,
		"description": plan.Description,
		"status":      plan.Status,
		"startDate":   plan.StartDate,
		"endDate":     plan.EndDate,
		"notes":       plan.Notes,
		"days":        plan.Days,
		"updatedAt":   plan.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SoftDelete marks only the plan document. The embedded days and
// exercises become unreachable through every plan-scoped read without
// being individually marked.
func (r *mongoPlanRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := notDeleted(bson.M{"_id": id})
	update := bson.M{"$set": bson.M{"deleted": true, "deletedAt": at.UTC(), "updatedAt": at.UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates the indexes for the workout_plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "days._id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
