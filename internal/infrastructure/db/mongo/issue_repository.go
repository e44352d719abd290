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

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

const collectionIssues = "issues"

// IssueRepository implements ports.IssueRepository on MongoDB.
type IssueRepository struct {
	col *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{col: db.Collection(collectionIssues)}
}

type mongoIssue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	CreatedBy   string             `bson:"created_by"`
	AssignedTo  string             `bson:"assigned_to,omitempty"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mi mongoIssue) toDomain() *domain.Issue {
	tags := mi.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Issue{
		ID:          mi.ID.Hex(),
		Title:       mi.Title,
		Description: mi.Description,
		Status:      domain.IssueStatus(mi.Status),
		Priority:    domain.IssuePriority(mi.Priority),
		CreatedBy:   mi.CreatedBy,
		AssignedTo:  mi.AssignedTo,
		Tags:        tags,
		CreatedAt:   mi.CreatedAt.UTC(),
		UpdatedAt:   mi.UpdatedAt.UTC(),
	}
}

func fromDomainIssue(issue *domain.Issue) mongoIssue {
	return mongoIssue{
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		CreatedBy:   issue.CreatedBy,
		AssignedTo:  issue.AssignedTo,
		Tags:        issue.Tags,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

// Create inserts a new issue document.
func (r *IssueRepository) Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, fromDomainIssue(issue))
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}

	created := *issue
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	if created.Tags == nil {
		created.Tags = []string{}
	}
	return &created, nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIssueNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoIssue
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return mi.toDomain(), nil
}

// Update applies a partial field patch and returns the updated document.
// Single-document atomic; last writer wins.
func (r *IssueRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIssueNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoIssue
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mi)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, fmt.Errorf("update issue: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIssueNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

// List returns a page of issues matching filter and the total match count.
// Filters combine with AND; results are newest-created first. Text search
// uses the title+description text index.
func (r *IssueRepository) List(ctx context.Context, f ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.AssignedTo != "" {
		filter["assigned_to"] = f.AssignedTo
	}
	if f.CreatedBy != "" {
		filter["created_by"] = f.CreatedBy
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	skip := int64(f.Page-1) * int64(f.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	defer cur.Close(ctx)

	var issues []*domain.Issue
	for cur.Next(ctx) {
		var mi mongoIssue
		if err := cur.Decode(&mi); err != nil {
			return nil, 0, fmt.Errorf("decode issue: %w", err)
		}
		issues = append(issues, mi.toDomain())
	}
	return issues, total, cur.Err()
}

// CountByStatus counts issues in a status; an empty status counts all.
func (r *IssueRepository) CountByStatus(ctx context.Context, status domain.IssueStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.col.CountDocuments(ctx, filter)
}

func (r *IssueRepository) CountByCreator(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"created_by": userID})
}

func (r *IssueRepository) CountByAssignee(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"assigned_to": userID})
}

// Recent returns the newest issues ordered by orderField descending.
func (r *IssueRepository) Recent(ctx context.Context, orderField string, limit int) ([]*domain.Issue, error) {
	if orderField != "updated_at" {
		orderField = "created_at"
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: orderField, Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent issues: %w", err)
	}
	defer cur.Close(ctx)

	var issues []*domain.Issue
	for cur.Next(ctx) {
		var mi mongoIssue
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode issue: %w", err)
		}
		issues = append(issues, mi.toDomain())
	}
	return issues, cur.Err()
}

func (r *IssueRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
	})
	return err
}
