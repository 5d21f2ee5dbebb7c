package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

const auditCollection = "audit_events"

// auditDocument is the stored shape of a domain.AuditEvent.
type auditDocument struct {
	Type       string            `bson:"type"`
	ActorID    string            `bson:"actor_id,omitempty"`
	ActorRole  string            `bson:"actor_role,omitempty"`
	ElectionID string            `bson:"election_id,omitempty"`
	SubjectID  string            `bson:"subject_id,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`
	Meta       map[string]string `bson:"meta,omitempty"`
	StoredAt   time.Time         `bson:"stored_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the indexes used by List.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "election_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// Insert appends an event to the audit trail.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := auditDocument{
		Type:       string(event.Type),
		ActorID:    event.ActorID,
		ActorRole:  string(event.ActorRole),
		ElectionID: event.ElectionID,
		SubjectID:  event.SubjectID,
		OccurredAt: event.OccurredAt.UTC(),
		Meta:       event.Meta,
		StoredAt:   time.Now().UTC(),
	}
	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List returns the newest events first.
func (r *AuditRepository) List(ctx context.Context, filter ports.ListAuditFilter) ([]*domain.AuditEvent, error) {
	query := bson.M{}
	if filter.ElectionID != "" {
		query["election_id"] = filter.ElectionID
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if !filter.Since.IsZero() {
		query["occurred_at"] = bson.M{"$gte": filter.Since.UTC()}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(filter.Limit))

	cursor, err := r.db.Collection(auditCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []auditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	events := make([]*domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.AuditEvent{
			Type:       domain.AuditType(d.Type),
			ActorID:    d.ActorID,
			ActorRole:  domain.Role(d.ActorRole),
			ElectionID: d.ElectionID,
			SubjectID:  d.SubjectID,
			OccurredAt: d.OccurredAt,
			Meta:       d.Meta,
		})
	}
	return events, nil
}
