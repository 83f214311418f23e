// Package realtime contains the change-stream driven pieces of the backend:
// the notification aggregator feeding the admin dashboard and the session
// validity gate that force-expires sessions when an account document goes
// inactive or unapproved.
package realtime

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

// ChangeStream is the subset of *mongo.ChangeStream the watchers consume.
type ChangeStream interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// StreamOpener establishes a live subscription. Watch loops call it again
// after a stream error.
type StreamOpener func(ctx context.Context) (ChangeStream, error)

type orderEvent struct {
	FullDocument models.Order `bson:"fullDocument"`
}

type accountEvent struct {
	FullDocument models.User `bson:"fullDocument"`
}

// OrderInsertOpener watches the order collection for newly created orders.
func OrderInsertOpener(col *mongo.Collection) StreamOpener {
	return func(ctx context.Context) (ChangeStream, error) {
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{
				{Key: "operationType", Value: "insert"},
				{Key: "fullDocument.status", Value: models.OrderStatusNew},
			}}},
		}
		return col.Watch(ctx, pipeline)
	}
}

// AccountUpdateOpener watches the user collection for account updates so the
// session gate can re-check validity on every change.
func AccountUpdateOpener(col *mongo.Collection) StreamOpener {
	return func(ctx context.Context) (ChangeStream, error) {
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{
				{Key: "operationType", Value: bson.D{
					{Key: "$in", Value: bson.A{"insert", "update", "replace"}},
				}},
			}}},
		}
		opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
		return col.Watch(ctx, pipeline, opts)
	}
}
