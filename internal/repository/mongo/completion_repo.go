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

const completionCollectionName = "workout_completions"

// mongoCompletionRepository implements repository.CompletionRepository
// using MongoDB. Exercise logs are embedded, so a completion with all its
// logs is inserted in one atomic write.
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates a new completion repository backed by MongoDB.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

func (r *mongoCompletionRepository) Create(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	if completion.MemberID == primitive.NilObjectID || completion.WorkoutDayID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("completion requires memberId and workoutDayId")
	}

	completion.ID = primitive.NewObjectID()
	completion.UUID = uuid.NewString()
	now := time.Now().UTC()
	completion.CreatedAt = now
	completion.UpdatedAt = now
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = now
	}
	if completion.Logs == nil {
		completion.Logs = []domain.ExerciseLog{}
	}

	result, err := r.collection.InsertOne(ctx, completion)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted completion ID")
	}
	return insertedID, nil
}

func (r *mongoCompletionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	var completion domain.WorkoutCompletion
	err := r.collection.FindOne(ctx, notDeleted(bson.M{"_id": id})).Decode(&completion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *mongoCompletionRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	return r.findMany(ctx, notDeleted(bson.M{"memberId": memberID}))
}

func (r *mongoCompletionRepository) GetByMemberIDAndRange(ctx context.Context, memberID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutCompletion, error) {
	filter := notDeleted(bson.M{
		"memberId":    memberID,
		"completedAt": bson.M{"$gte": from.UTC(), "$lte": to.UTC()},
	})
	return r.findMany(ctx, filter)
}

func (r *mongoCompletionRepository) CountByMemberID(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, notDeleted(bson.M{"memberId": memberID}))
}

func (r *mongoCompletionRepository) findMany(ctx context.Context, filter bson.M) ([]domain.WorkoutCompletion, error) {
	var completions []domain.WorkoutCompletion
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return completions, nil
}

// EnsureCompletionIndexes creates the indexes for the workout_completions
// collection.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "completedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "workoutDayId", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
