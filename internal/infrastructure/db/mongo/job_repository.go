package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

type jobDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Wage        float64             `bson:"wage"`
	Location    string              `bson:"location"`
	Deadline    *time.Time          `bson:"deadline"`
	Status      string              `bson:"status"`
	PostedBy    primitive.ObjectID  `bson:"posted_by"`
	AppliedBy   *primitive.ObjectID `bson:"applied_by,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
	CompletedAt *time.Time          `bson:"completed_at,omitempty"`
}

func (d *jobDoc) toDomain() *domain.Job {
	return &domain.Job{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Wage:        d.Wage,
		Location:    d.Location,
		Deadline:    d.Deadline,
		Status:      domain.JobStatus(d.Status),
		PostedBy:    d.PostedBy.Hex(),
		AppliedBy:   hexOrEmpty(d.AppliedBy),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		CompletedAt: d.CompletedAt,
	}
}

func newJobDoc(j *domain.Job) (jobDoc, error) {
	poster, ok := objectID(j.PostedBy)
	if !ok {
		return jobDoc{}, fmt.Errorf("invalid poster id %q", j.PostedBy)
	}
	doc := jobDoc{
		Title:       j.Title,
		Description: j.Description,
		Wage:        j.Wage,
		Location:    j.Location,
		Deadline:    j.Deadline,
		Status:      string(j.Status),
		PostedBy:    poster,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		CompletedAt: j.CompletedAt,
	}
	if j.AppliedBy != "" {
		worker, ok := objectID(j.AppliedBy)
		if !ok {
			return jobDoc{}, fmt.Errorf("invalid worker id %q", j.AppliedBy)
		}
		doc.AppliedBy = &worker
	}
	return doc, nil
}

// Create inserts a job and assigns its generated id to job.ID.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	doc, err := newJobDoc(job)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		job.ID = id.Hex()
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *JobRepository) Find(ctx context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	filter, ok := buildJobFilter(f)
	if !ok {
		return []*domain.Job{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(jobSort(f.Sort))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, docs[i].toDomain())
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context, f ports.JobFilter) (int64, error) {
	filter, ok := buildJobFilter(f)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// Update overwrites the editable fields of a job owned by posterID.
func (r *JobRepository) Update(ctx context.Context, id, posterID string, fields domain.JobFields, now time.Time) (*domain.Job, error) {
	oid, ok := objectID(id)
	poster, posterOK := objectID(posterID)
	if !ok || !posterOK {
		return nil, domain.ErrJobNotFound
	}

	return r.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "posted_by": poster},
		bson.M{"$set": bson.M{
			"title":       fields.Title,
			"description": fields.Description,
			"wage":        fields.Wage,
			"location":    fields.Location,
			"deadline":    fields.Deadline,
			"updated_at":  now,
		}},
		func() error { return domain.ErrJobNotFound },
	)
}

// Apply moves an open job to active in one conditional write. When nothing
// matches, a follow-up lookup tells a missing job from one that is no longer open.
func (r *JobRepository) Apply(ctx context.Context, id, workerID string, now time.Time) (*domain.Job, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	worker, ok := objectID(workerID)
	if !ok {
		return nil, fmt.Errorf("invalid worker id %q", workerID)
	}

	return r.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(domain.JobOpen)},
		bson.M{"$set": bson.M{
			"status":     string(domain.JobActive),
			"applied_by": worker,
			"updated_at": now,
		}},
		func() error { return r.missOr(ctx, oid, domain.ErrJobNotOpen) },
	)
}

// Complete marks a job completed unless it already is, in one conditional write.
func (r *JobRepository) Complete(ctx context.Context, id string, now time.Time) (*domain.Job, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	return r.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": bson.M{"$ne": string(domain.JobCompleted)}},
		bson.M{"$set": bson.M{
			"status":       string(domain.JobCompleted),
			"completed_at": now,
			"updated_at":   now,
		}},
		func() error { return r.missOr(ctx, oid, domain.ErrJobAlreadyCompleted) },
	)
}

func (r *JobRepository) Delete(ctx context.Context, id, posterID string) error {
	oid, ok := objectID(id)
	poster, posterOK := objectID(posterID)
	if !ok || !posterOK {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "posted_by": poster})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// DeleteAll empties the collection. Used by the seeder.
func (r *JobRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

func (r *JobRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, onMiss func() error) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, onMiss()
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return doc.toDomain(), nil
}

// missOr returns domain.ErrJobNotFound when the job does not exist, else guard.
func (r *JobRepository) missOr(ctx context.Context, oid primitive.ObjectID, guard error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("find job: %w", err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return guard
}

// buildJobFilter translates a ports.JobFilter into a query document. ok is
// false when a party id is malformed and the query cannot match anything.
func buildJobFilter(f ports.JobFilter) (bson.M, bool) {
	filter := bson.M{}

	if f.PostedBy != "" {
		id, ok := objectID(f.PostedBy)
		if !ok {
			return nil, false
		}
		filter["posted_by"] = id
	}
	if f.AppliedBy != "" {
		id, ok := objectID(f.AppliedBy)
		if !ok {
			return nil, false
		}
		filter["applied_by"] = id
	}

	switch len(f.Statuses) {
	case 0:
	case 1:
		filter["status"] = string(f.Statuses[0])
	default:
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		filter["status"] = bson.M{"$in": statuses}
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
		}
	}
	return filter, true
}

func jobSort(s ports.JobSort) bson.D {
	if s == ports.SortRecentlyUpdated {
		return bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
	}
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// EnsureIndexes creates the indexes backing the role-scoped listings.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "posted_by", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "applied_by", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
