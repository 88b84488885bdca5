// Package mongoaudit implements audit.Mirror, the secondary append-only
// audit sink. Grounded on the teacher's audit.AuditMongoDBRepository
// (panic-on-unreachable-at-boot connection wrapper, one collection per
// logical stream), with the OpenTelemetry span instrumentation dropped
// (see DESIGN.md dropped-deps list) since this module carries no tracing
// stack.
package mongoaudit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coziyoo/backend/internal/domain/audit"
)

// Mirror wraps a single Mongo client/database, panicking on an unreachable
// server at boot the way postgres.Connect and redisstore.Connect do.
type Mirror struct {
	client   *mongo.Client
	database string
}

func Connect(ctx context.Context, uri, database string) *Mirror {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		panic(fmt.Sprintf("mongoaudit: failed to connect: %v", err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		panic(fmt.Sprintf("mongoaudit: failed to ping: %v", err))
	}
	return &Mirror{client: client, database: database}
}

func (m *Mirror) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }

// record is the BSON-shaped mirror of audit.Log, document ID set to the
// source row's UUID so a rerun of the same mirror write is idempotent.
type record struct {
	ID         string         `bson:"_id"`
	ActorID    string         `bson:"actor_id"`
	Action     string         `bson:"action"`
	EntityType string         `bson:"entity_type"`
	EntityID   string         `bson:"entity_id"`
	Before     map[string]any `bson:"before"`
	After      map[string]any `bson:"after"`
	CreatedAt  time.Time      `bson:"created_at"`
}

func (m *Mirror) collection() *mongo.Collection {
	return m.client.Database(m.database).Collection("admin_audit_log")
}

// Append writes the mirrored row, upserting on _id so at-least-once
// delivery from the calling service never produces duplicate documents.
func (m *Mirror) Append(ctx context.Context, l *audit.Log) error {
	r := record{
		ID:         l.ID.String(),
		ActorID:    l.ActorID.String(),
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID.String(),
		Before:     l.Before,
		After:      l.After,
		CreatedAt:  l.CreatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	_, err := m.collection().ReplaceOne(ctx, bson.M{"_id": r.ID}, r, opts)
	return err
}
