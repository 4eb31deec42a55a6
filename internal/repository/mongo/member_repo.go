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

const memberCollectionName = "members"

// mongoMemberRepository implements repository.MemberRepository using MongoDB.
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new member repository backed by MongoDB.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member. Email and phone uniqueness are enforced by
// indexes; violations surface as repository.ErrConflict.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.Email == "" || member.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("member email and password hash are required")
	}

	member.ID = primitive.NewObjectID()
	member.UUID = uuid.NewString()
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now
	if member.AssignmentStatus == "" {
		member.AssignmentStatus = domain.AssignmentNoTrainer
	}

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted member ID")
	}
	return insertedID, nil
}

func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	return r.findOne(ctx, notDeleted(bson.M{"_id": id}))
}

func (r *mongoMemberRepository) GetByUUID(ctx context.Context, externalID string) (*domain.Member, error) {
	return r.findOne(ctx, notDeleted(bson.M{"uuid": externalID}))
}

func (r *mongoMemberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.findOne(ctx, notDeleted(bson.M{"email": email}))
}

func (r *mongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var member domain.Member
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// GetByTrainerID retrieves all members currently assigned to a trainer.
func (r *mongoMemberRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Member, error) {
	return r.findMany(ctx, notDeleted(bson.M{"assignedTrainerId": trainerID}))
}

// CountByTrainerID counts members currently assigned to a trainer. A
// trainer with a zero count is considered available.
func (r *mongoMemberRepository) CountByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, notDeleted(bson.M{"assignedTrainerId": trainerID}))
}

func (r *mongoMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	return r.findMany(ctx, notDeleted(bson.M{}))
}

func (r *mongoMemberRepository) findMany(ctx context.Context, filter bson.M) ([]domain.Member, error) {
	var members []domain.Member
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// Update replaces the member's mutable fields. The filter excludes deleted
// rows so a soft-deleted member cannot be written through.
func (r *mongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	member.UpdatedAt = time.Now().UTC()

	filter := notDeleted(bson.M{"_id": member.ID})
	update := bson.M{"$set": bson.M{
		"name":              member.Name,
		"phone":             member.Phone,
		"membershipStart":   member.MembershipStart,
		"membershipEnd":     member.MembershipEnd,
		"assignedTrainerId": member.AssignedTrainerID,
		"assignmentStatus":  member.AssignmentStatus,
		"updatedAt":         member.UpdatedAt,
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

// SoftDelete stamps the deletion timestamp without removing the document.
func (r *mongoMemberRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error {
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

// Restore clears the deletion mark and returns the revived member.
// This is the one read path that looks at deleted rows.
func (r *mongoMemberRepository) Restore(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	filter := bson.M{"_id": id, "deleted": true}
	update := bson.M{
		"$unset": bson.M{"deletedAt": ""},
		"$set":   bson.M{"deleted": false, "updatedAt": time.Now().UTC()},
	}

	var member domain.Member
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// EnsureMemberIndexes creates the indexes the member queries rely on.
// Call this once during application startup.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
			// Unique among live members only; a deleted member's phone
			// may be reused.
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"deleted": false, "phone": bson.M{"$gt": ""}}),
		},
		{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "assignedTrainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
