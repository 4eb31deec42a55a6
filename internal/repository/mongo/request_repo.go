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

const requestCollectionName = "assignment_requests"

// mongoRequestRepository implements repository.RequestRepository using MongoDB.
type mongoRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoRequestRepository creates a new assignment request repository
// backed by MongoDB.
func NewMongoRequestRepository(db *mongo.Database) repository.RequestRepository {
	return &mongoRequestRepository{
		collection: db.Collection(requestCollectionName),
	}
}

// Create inserts a new request. The partial unique index on
// (memberId, status=pending) makes a concurrent double-insert for the same
// member fail with a duplicate key error, surfaced as ErrConflict, so the
// at-most-one-pending invariant holds without any application-level lock.
func (r *mongoRequestRepository) Create(ctx context.Context, request *domain.TrainerAssignmentRequest) (primitive.ObjectID, error) {
	if request.MemberID == primitive.NilObjectID || request.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("request requires memberId and trainerId")
	}

	request.ID = primitive.NewObjectID()
	request.UUID = uuid.NewString()
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now
	if request.RequestedAt.IsZero() {
		request.RequestedAt = now
	}
	if request.Status == "" {
		request.Status = domain.RequestPending
	}

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted request ID")
	}
	return insertedID, nil
}

func (r *mongoRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerAssignmentRequest, error) {
	var request domain.TrainerAssignmentRequest
	err := r.collection.FindOne(ctx, notDeleted(bson.M{"_id": id})).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *mongoRequestRepository) GetPendingByMemberID(ctx context.Context, memberID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error) {
	var request domain.TrainerAssignmentRequest
	filter := notDeleted(bson.M{"memberId": memberID, "status": domain.RequestPending})

	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *mongoRequestRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	return r.findMany(ctx, notDeleted(bson.M{"memberId": memberID}))
}

func (r *mongoRequestRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	return r.findMany(ctx, notDeleted(bson.M{"trainerId": trainerID}))
}

func (r *mongoRequestRepository) GetPendingByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	return r.findMany(ctx, notDeleted(bson.M{"trainerId": trainerID, "status": domain.RequestPending}))
}

func (r *mongoRequestRepository) CountPendingByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, notDeleted(bson.M{"trainerId": trainerID, "status": domain.RequestPending}))
}

func (r *mongoRequestRepository) findMany(ctx context.Context, filter bson.M) ([]domain.TrainerAssignmentRequest, error) {
	var requests []domain.TrainerAssignmentRequest
	findOptions := options.Find().SetSort(bson.D{{Key: "requestedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *mongoRequestRepository) Update(ctx context.Context, request *domain.TrainerAssignmentRequest) error {
	request.UpdatedAt = time.Now().UTC()

	filter := notDeleted(bson.M{"_id": request.ID})
	update := bson.M{"$set": bson.M{
		"status":          request.Status,
		"trainerResponse": request.TrainerResponse,
		"respondedAt":     request.RespondedAt,
		"updatedAt":       request.UpdatedAt,
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

// EnsureRequestIndexes creates the indexes for the assignment_requests
// collection, including the race guard for pending requests.
func EnsureRequestIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// At most one pending request per member, enforced by the store.
			Keys: bson.D{{Key: "memberId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.RequestPending)}),
		},
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "status", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
