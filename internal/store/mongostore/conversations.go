package mongostore

import (
	"context"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *MongoStore) SaveExchange(ctx context.Context, ex *models.ChatExchange) error {
	if ex.Timestamp.IsZero() {
		ex.Timestamp = now()
	}
	doc := exchangeDoc{ID: bson.NewObjectID(), UserID: ex.UserID, Input: ex.Input, Output: ex.Output, Timestamp: ex.Timestamp}
	if _, err := s.coll(store.CollChatHistory).InsertOne(ctx, doc); err != nil {
		return err
	}
	ex.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) RecentExchanges(ctx context.Context, userID string, limit int) ([]models.ChatExchange, error) {
	cur, err := s.coll(store.CollChatHistory).Find(ctx, bson.M{"userId": userID}, newestFirst("timestamp", limit))
	if err != nil {
		return nil, err
	}
	var docs []exchangeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	history := make([]models.ChatExchange, 0, len(docs))
	for _, d := range docs {
		history = append(history, d.model())
	}
	reverse(history)
	return history, nil
}

func (s *MongoStore) ClaimOrphanedExchanges(ctx context.Context, userID string) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"userId": ""},
		bson.M{"userId": bson.M{"$exists": false}},
	}}
	res, err := s.coll(store.CollChatHistory).UpdateMany(ctx, filter, bson.M{"$set": bson.M{"userId": userID}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *MongoStore) SaveDirectMessage(ctx context.Context, msg *models.DirectMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now()
	}
	doc := directMessageDoc{ID: bson.NewObjectID(), SenderID: msg.SenderID, RecipientID: msg.RecipientID, Content: msg.Content, Timestamp: msg.Timestamp}
	if _, err := s.coll(store.CollDirectMessages).InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) DirectMessages(ctx context.Context, userA, userB string, limit int) ([]models.DirectMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": userA, "recipientId": userB},
		bson.M{"senderId": userB, "recipientId": userA},
	}}
	cur, err := s.coll(store.CollDirectMessages).Find(ctx, filter, newestFirst("timestamp", limit))
	if err != nil {
		return nil, err
	}
	var docs []directMessageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	messages := make([]models.DirectMessage, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.model())
	}
	reverse(messages)
	return messages, nil
}

func (s *MongoStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now()
	}
	doc := groupDoc{ID: bson.NewObjectID(), Name: group.Name, CreatorID: group.CreatorID, Members: group.Members, CreatedAt: group.CreatedAt}
	if _, err := s.coll(store.CollGroups).InsertOne(ctx, doc); err != nil {
		return err
	}
	group.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	var doc groupDoc
	if err := s.coll(store.CollGroups).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	group := doc.model()
	return &group, nil
}

func (s *MongoStore) UserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll(store.CollGroups).Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []groupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	groups := make([]models.Group, 0, len(docs))
	for _, d := range docs {
		groups = append(groups, d.model())
	}
	return groups, nil
}

func (s *MongoStore) SaveGroupMessage(ctx context.Context, msg *models.GroupMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now()
	}
	doc := groupMessageDoc{
		ID:         bson.NewObjectID(),
		GroupID:    msg.GroupID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Content:    msg.Content,
		Timestamp:  msg.Timestamp,
	}
	if _, err := s.coll(store.CollGroupMessages).InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GroupMessages(ctx context.Context, groupID string, limit int) ([]models.GroupMessage, error) {
	cur, err := s.coll(store.CollGroupMessages).Find(ctx, bson.M{"groupId": groupID}, newestFirst("timestamp", limit))
	if err != nil {
		return nil, err
	}
	var docs []groupMessageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	messages := make([]models.GroupMessage, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, d.model())
	}
	reverse(messages)
	return messages, nil
}
