package mongostore

import (
	"context"
	"strings"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	users := s.coll(store.CollUsers)

	n, err := users.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return err
	}
	if n > 0 {
		return store.ErrDuplicateUsername
	}
	n, err = users.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return err
	}
	if n > 0 {
		return store.ErrDuplicateEmail
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	doc := userDoc{
		ID:                bson.NewObjectID(),
		Username:          user.Username,
		Email:             user.Email,
		Password:          user.Password,
		IsVerified:        user.IsVerified,
		VerificationToken: user.VerificationToken,
		CreatedAt:         user.CreatedAt,
	}
	if _, err := users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email") {
				return store.ErrDuplicateEmail
			}
			return store.ErrDuplicateUsername
		}
		return err
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := s.coll(store.CollUsers).FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	user := doc.model()
	return &user, nil
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cur, err := s.coll(store.CollUsers).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func (s *MongoStore) VerifyUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	update := bson.M{"$set": bson.M{"isVerified": true, "verificationToken": ""}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err := s.coll(store.CollUsers).FindOneAndUpdate(ctx, bson.M{"verificationToken": token}, update, opts).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	user := doc.model()
	return &user, nil
}

func (s *MongoStore) GetEmailTemplate(ctx context.Context, name string) (*models.EmailTemplate, error) {
	var doc templateDoc
	if err := s.coll(store.CollEmailTemplates).FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return &models.EmailTemplate{Name: doc.Name, Subject: doc.Subject, Body: doc.Body}, nil
}

func (s *MongoStore) UpsertEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error {
	update := bson.M{"$set": bson.M{"subject": tmpl.Subject, "body": tmpl.Body}}
	_, err := s.coll(store.CollEmailTemplates).UpdateOne(ctx, bson.M{"name": tmpl.Name}, update, options.UpdateOne().SetUpsert(true))
	return err
}
