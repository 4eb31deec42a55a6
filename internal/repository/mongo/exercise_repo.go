package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// caseInsensitive is collation strength 2: letter differences matter,
// case differences do not. Used by the catalog name lookups and the
// catalog-name unique index so "Squat" and "squat" collide.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// mongoExerciseRepository implements repository.ExerciseRepository using MongoDB.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	exercise.UUID = uuid.NewString()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted exercise ID")
	}
	return insertedID, nil
}

func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, notDeleted(bson.M{"_id": id})).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetCatalogByName matches a live catalog exercise by name, ignoring case.
func (r *mongoExerciseRepository) GetCatalogByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := notDeleted(bson.M{"name": name, "isCustom": false})
	opts := options.FindOne().SetCollation(caseInsensitive)

	err := r.collection.FindOne(ctx, filter, opts).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *mongoExerciseRepository) GetCatalog(ctx context.Context) ([]domain.Exercise, error) {
	return r.findMany(ctx, notDeleted(bson.M{"isCustom": false}))
}

func (r *mongoExerciseRepository) GetCustomByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	return r.findMany(ctx, notDeleted(bson.M{"isCustom": true, "trainerId": trainerID}))
}

func (r *mongoExerciseRepository) GetByCategory(ctx context.Context, category domain.ExerciseCategory) ([]domain.Exercise, error) {
	return r.findMany(ctx, notDeleted(bson.M{"category": category}))
}

func (r *mongoExerciseRepository) GetByMuscleGroup(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error) {
	return r.findMany(ctx, notDeleted(bson.M{"muscleGroup": muscle}))
}

func (r *mongoExerciseRepository) GetByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Exercise, error) {
	return r.findMany(ctx, notDeleted(bson.M{"difficulty": difficulty}))
}

// SearchByName finds exercises whose name contains the substring,
// case-insensitively.
func (r *mongoExerciseRepository) SearchByName(ctx context.Context, substring string) ([]domain.Exercise, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(substring), Options: "i"}
	return r.findMany(ctx, notDeleted(bson.M{"name": pattern}))
}

func (r *mongoExerciseRepository) CountCatalog(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, notDeleted(bson.M{"isCustom": false}))
}

func (r *mongoExerciseRepository) findMany(ctx context.Context, filter bson.M) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	exercise.UpdatedAt = time.Now().UTC()

	filter := notDeleted(bson.M{"_id": exercise.ID})
	update := bson.M{"$set": bson.M{
		"name":         exercise.Name,
		"description":  exercise.Description,
		"category":     exercise.Category,
		"muscleGroup":  exercise.MuscleGroup,
		"difficulty":   exercise.Difficulty,
		"instructions": exercise.Instructions,
		"equipment":    exercise.Equipment,
		"mediaUrls":    exercise.MediaURLs,
		"updatedAt":    exercise.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoExerciseRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error {
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

// EnsureExerciseIndexes creates the indexes for the exercises collection.
// The catalog name index is unique, case-insensitive via collation, and
// partial so custom exercises and deleted rows do not participate.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetCollation(caseInsensitive).
				SetPartialFilterExpression(bson.M{"isCustom": false, "deleted": false}),
		},
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "muscleGroup", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "difficulty", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
