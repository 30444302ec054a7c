package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lifecoach/internal/database"
	"lifecoach/internal/models"
)

// ArchiveService mirrors processed communications and their reminders into
// MongoDB for long-term history. Optional: when Mongo is not configured the
// service is nil and archiving is skipped.
type ArchiveService struct {
	communications *mongo.Collection
	reminders      *mongo.Collection
}

// NewArchiveService creates an archive service over the given MongoDB
func NewArchiveService(mongoDB *database.MongoDB) *ArchiveService {
	return &ArchiveService{
		communications: mongoDB.Collection(database.CollectionCommunications),
		reminders:      mongoDB.Collection(database.CollectionReminders),
	}
}

// EnsureIndexes creates the archive collection indexes
func (s *ArchiveService) EnsureIndexes(ctx context.Context) error {
	_, err := s.communications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create communications index: %w", err)
	}

	_, err = s.reminders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "communicationId", Value: 1}}},
		{Keys: bson.D{{Key: "when", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reminders indexes: %w", err)
	}
	return nil
}

// Archive stores one processed communication with its derived reminders
func (s *ArchiveService) Archive(ctx context.Context, comm models.Communication, reminders []*models.Reminder) error {
	_, err := s.communications.InsertOne(ctx, bson.M{
		"_id":        comm.ID,
		"timestamp":  comm.Timestamp,
		"content":    comm.Content,
		"sender":     comm.Sender,
		"recipient":  comm.Recipient,
		"archivedAt": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to archive communication: %w", err)
	}

	if len(reminders) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(reminders))
	for _, r := range reminders {
		docs = append(docs, bson.M{
			"_id":             r.ID,
			"communicationId": comm.ID,
			"when":            r.When,
			"message":         r.Message,
			"priority":        string(r.Priority),
			"commitment": bson.M{
				"when":  r.Commitment.When,
				"who":   r.Commitment.Who,
				"what":  r.Commitment.What,
				"where": r.Commitment.Where,
			},
			"archivedAt": time.Now().UTC(),
		})
	}

	_, err = s.reminders.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to archive reminders: %w", err)
	}
	return nil
}
