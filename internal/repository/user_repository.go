package repository

import (
	"context"
	"fmt"

	"eshop/internal/database"
	"eshop/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// withoutHash excludes the password hash from every read except GetByEmail.
var withoutHash = bson.M{"passwordHash": 0}

// userRepository implements the UserRepository interface using MongoDB.
type userRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewUserRepository creates a new MongoDB-backed user repository.
func NewUserRepository(db *mongo.Database, logger zerolog.Logger) UserRepository {
	return &userRepository{
		coll:   db.Collection(database.CollectionUsers),
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func (r *userRepository) GetAll(ctx context.Context) ([]model.User, error) {
	users, err := findMany[model.User](ctx, r.coll, bson.M{}, options.Find().SetProjection(withoutHash))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := findOne[model.User](ctx, r.coll, bson.M{"_id": id}, options.FindOne().SetProjection(withoutHash))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.Hex()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	users, err := findMany[model.User](ctx, r.coll, byIDs(ids), options.Find().SetProjection(withoutHash))
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query users by IDs")
		return nil, fmt.Errorf("failed to query users by IDs: %w", err)
	}
	return users, nil
}

// GetByEmail is used for authentication and includes the password hash.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := findOne[model.User](ctx, r.coll, bson.M{"email": email})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query user by email")
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count users")
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn().Msg("email already registered")
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Msg("failed to insert user")
		return fmt.Errorf("failed to insert user: %w", err)
	}

	r.logger.Info().Str("user_id", user.ID.Hex()).Bool("is_admin", user.IsAdmin).Msg("user created")
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"isAdmin":   user.IsAdmin,
		"street":    user.Street,
		"apartment": user.Apartment,
		"zip":       user.Zip,
		"city":      user.City,
		"country":   user.Country,
	}
	if user.PasswordHash != "" {
		set["passwordHash"] = user.PasswordHash
	}

	updated, err := findOneAndUpdate[model.User](ctx, r.coll, user.ID, bson.M{"$set": set}, withoutHash)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	deleted, err := findOneAndDelete[model.User](ctx, r.coll, id, withoutHash)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.Hex()).Msg("failed to delete user")
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, nil
}
