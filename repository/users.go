package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmertwin/model"
	"farmertwin/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UsersRepo is the credential store. Lookups of a missing user return
// utils.ErrNotFound; inserting a taken email returns utils.ErrConflict.
type UsersRepo interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	RecordLogin(ctx context.Context, userID string, at time.Time, readiness *string) error
	UpdateProfileImage(ctx context.Context, userID, path string) error
	Close(ctx context.Context) error
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func GetUserRepo(client *mongo.Client, dbName, collectionName string) *UserRepo {
	return &UserRepo{
		client:          client,
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// UserRepo stores users in a MongoDB collection.
type UserRepo struct {
	client          *mongo.Client
	MongoCollection *mongo.Collection
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Email == "" || user.PasswordHash == "" {
		utils.TrackError("database", "invalid_user_data")
		return fmt.Errorf("email and password hash required: %w", utils.ErrValidation)
	}

	_, err := r.MongoCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %s: %w", user.Email, utils.ErrConflict)
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("failed to add user to database: %w", err)
	}

	return nil
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *UserRepo) RecordLogin(ctx context.Context, userID string, at time.Time, readiness *string) error {
	set := bson.M{"last_login": at}
	if readiness != nil {
		set["last_readiness"] = *readiness
	}
	return r.updateOne(ctx, userID, set, "login_update_failed")
}

func (r *UserRepo) UpdateProfileImage(ctx context.Context, userID, path string) error {
	return r.updateOne(ctx, userID, bson.M{"profile_image": path}, "profile_update_failed")
}

func (r *UserRepo) updateOne(ctx context.Context, userID string, set bson.M, reason string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		utils.TrackError("database", reason)
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrNotFound
	}

	return nil
}

func (r *UserRepo) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
