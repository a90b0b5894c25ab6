package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dwjc/job-connector/internal/core/domain"
)

type WishlistRepository struct {
	col *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{col: db.Collection(collectionWishlists)}
}

type wishlistDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	JobID     primitive.ObjectID `bson:"job_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *wishlistDoc) toDomain() *domain.WishlistEntry {
	return &domain.WishlistEntry{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		JobID:     d.JobID.Hex(),
		CreatedAt: d.CreatedAt,
	}
}

func (r *WishlistRepository) Find(ctx context.Context, userID, jobID string) (*domain.WishlistEntry, error) {
	user, userOK := objectID(userID)
	job, jobOK := objectID(jobID)
	if !userOK || !jobOK {
		return nil, domain.ErrWishlistEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc wishlistDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": user, "job_id": job}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWishlistEntryNotFound
		}
		return nil, fmt.Errorf("find wishlist entry: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts an entry. An existing (user, job) pair is not an error.
func (r *WishlistRepository) Create(ctx context.Context, entry *domain.WishlistEntry) error {
	user, userOK := objectID(entry.UserID)
	job, jobOK := objectID(entry.JobID)
	if !userOK || !jobOK {
		return fmt.Errorf("invalid wishlist entry %s/%s", entry.UserID, entry.JobID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, wishlistDoc{UserID: user, JobID: job, CreatedAt: entry.CreatedAt})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert wishlist entry: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id.Hex()
	}
	return nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrWishlistEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete wishlist entry: %w", err)
	}
	return nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]*domain.WishlistEntry, error) {
	user, ok := objectID(userID)
	if !ok {
		return []*domain.WishlistEntry{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": user},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find wishlist: %w", err)
	}
	defer cur.Close(ctx)

	var docs []wishlistDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}

	out := make([]*domain.WishlistEntry, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *WishlistRepository) DeleteByJob(ctx context.Context, jobID string) error {
	job, ok := objectID(jobID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"job_id": job}); err != nil {
		return fmt.Errorf("delete wishlist entries: %w", err)
	}
	return nil
}

// DeleteAll empties the collection. Used by the seeder.
func (r *WishlistRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureIndexes creates the unique (user_id, job_id) index.
func (r *WishlistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "job_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "job_id", Value: 1}}},
	})
	return err
}
