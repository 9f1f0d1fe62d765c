package mongostore

import (
	"context"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *MongoStore) CreateNote(ctx context.Context, note *models.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now()
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}
	doc := noteDoc{
		ID:        bson.NewObjectID(),
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
	if _, err := s.coll(store.CollNotes).InsertOne(ctx, doc); err != nil {
		return err
	}
	note.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) Notes(ctx context.Context, userID string) ([]models.Note, error) {
	cur, err := s.coll(store.CollNotes).Find(ctx, bson.M{"userId": userID}, newestFirst("createdAt", 0))
	if err != nil {
		return nil, err
	}
	var docs []noteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.model())
	}
	return notes, nil
}

func (s *MongoStore) UpdateNote(ctx context.Context, note *models.Note) error {
	oid, ok := objectID(note.ID)
	if !ok {
		return nil
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now()
	}
	update := bson.M{"$set": bson.M{"title": note.Title, "content": note.Content, "updatedAt": note.UpdatedAt}}
	_, err := s.coll(store.CollNotes).UpdateOne(ctx, bson.M{"_id": oid, "userId": note.UserID}, update)
	return err
}

func (s *MongoStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	oid, ok := objectID(noteID)
	if !ok {
		return nil
	}
	_, err := s.coll(store.CollNotes).DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	return err
}
