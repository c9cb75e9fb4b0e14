package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"buildestate/internal/database"
	"buildestate/internal/models"
	"buildestate/internal/utils"
)

// UserRepository is the identity store. One document per mobile number; the
// unique index on mobile is what serializes concurrent registrations.
type UserRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, user *models.User) (*models.User, error)
	SetChallenge(ctx context.Context, mobile, code string, expiresAt time.Time) (bool, error)
	ConsumeChallenge(ctx context.Context, mobile, code string, now time.Time, set bson.M) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	FindByMobile(ctx context.Context, mobile string) (*models.User, error)
	CountAll(ctx context.Context) (int64, error)
	DeleteExpiredProvisional(ctx context.Context, now time.Time) (int64, error)
	ClearExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db database.Service
}

func NewUserRepository(db database.Service) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection() *mongo.Collection {
	return r.db.Client().Database(database.Name).Collection("users")
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"mobile": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := r.collection().Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique mobile index: %w", err)
	}
	return nil
}

// Create inserts a new identity. The unique mobile index rejects a second
// insert for the same number; callers detect that with
// mongo.IsDuplicateKeyError.
func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	queryType := "create"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.collection().InsertOne(ctx, user)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		if !mongo.IsDuplicateKeyError(err) {
			log.Error().Err(err).Str("mobile", user.Mobile).Msg("Failed to insert user into database")
		}
		return nil, err
	}
	return user, nil
}

// SetChallenge overwrites the OTP challenge on an existing identity. Returns
// false when no identity has that mobile.
func (r *userRepository) SetChallenge(ctx context.Context, mobile, code string, expiresAt time.Time) (bool, error) {
	queryType := "setChallenge"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"otp": code, "otpExpires": expiresAt}}
	result, err := r.collection().UpdateOne(ctx, bson.M{"mobile": mobile}, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("mobile", mobile).Msg("Failed to store OTP challenge")
		return false, fmt.Errorf("failed to store OTP challenge: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// ConsumeChallenge atomically matches (mobile, code, expiry in the future),
// clears the challenge fields, applies any extra set fields, and returns the
// updated identity. Returns nil when nothing matched, so a wrong, expired or
// already-consumed code are all indistinguishable to the caller. Two
// concurrent verifications race on the same filter and only one can win.
func (r *userRepository) ConsumeChallenge(ctx context.Context, mobile, code string, now time.Time, set bson.M) (*models.User, error) {
	queryType := "consumeChallenge"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{
		"mobile":     mobile,
		"otp":        code,
		"otpExpires": bson.M{"$gt": now},
	}
	update := bson.M{"$unset": bson.M{"otp": "", "otpExpires": ""}}
	if len(set) > 0 {
		update["$set"] = set
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("mobile", mobile).Msg("Failed to consume OTP challenge")
		return nil, fmt.Errorf("failed to consume OTP challenge: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	queryType := "findById"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var user models.User
	err := r.collection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &user, nil
}

func (r *userRepository) FindByMobile(ctx context.Context, mobile string) (*models.User, error) {
	queryType := "findByMobile"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var user models.User
	err := r.collection().FindOne(ctx, bson.M{"mobile": mobile}).Decode(&user)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	queryType := "countAll"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	count, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to count total users")
		return 0, fmt.Errorf("failed to count total users: %w", err)
	}
	return count, nil
}

// DeleteExpiredProvisional removes identities that never completed
// registration and whose challenge has lapsed. Registered users are never
// deleted here: they all have a name.
func (r *userRepository) DeleteExpiredProvisional(ctx context.Context, now time.Time) (int64, error) {
	queryType := "deleteExpiredProvisional"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{
		"name":       bson.M{"$exists": false},
		"otpExpires": bson.M{"$lt": now},
	}
	result, err := r.collection().DeleteMany(ctx, filter)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to delete expired provisional users")
		return 0, fmt.Errorf("failed to delete expired provisional users: %w", err)
	}
	return result.DeletedCount, nil
}

// ClearExpiredChallenges unsets lapsed OTP fields on registered identities.
func (r *userRepository) ClearExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	queryType := "clearExpiredChallenges"
	repository := "user"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{
		"name":       bson.M{"$exists": true},
		"otpExpires": bson.M{"$lt": now},
	}
	update := bson.M{"$unset": bson.M{"otp": "", "otpExpires": ""}}
	result, err := r.collection().UpdateMany(ctx, filter, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to clear expired OTP challenges")
		return 0, fmt.Errorf("failed to clear expired OTP challenges: %w", err)
	}
	return result.ModifiedCount, nil
}
