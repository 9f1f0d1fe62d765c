package mongostore

import (
	"time"

	"github.com/pliu/aichat/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type userDoc struct {
	ID                bson.ObjectID `bson:"_id"`
	Username          string        `bson:"username"`
	Email             string        `bson:"email"`
	Password          string        `bson:"password"`
	IsVerified        bool          `bson:"isVerified"`
	VerificationToken string        `bson:"verificationToken"`
	CreatedAt         time.Time     `bson:"createdAt"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:                d.ID.Hex(),
		Username:          d.Username,
		Email:             d.Email,
		Password:          d.Password,
		IsVerified:        d.IsVerified,
		VerificationToken: d.VerificationToken,
		CreatedAt:         d.CreatedAt.UTC(),
	}
}

type exchangeDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    string        `bson:"userId"`
	Input     string        `bson:"input"`
	Output    string        `bson:"output"`
	Timestamp time.Time     `bson:"timestamp"`
}

func (d exchangeDoc) model() models.ChatExchange {
	return models.ChatExchange{ID: d.ID.Hex(), UserID: d.UserID, Input: d.Input, Output: d.Output, Timestamp: d.Timestamp.UTC()}
}

type directMessageDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	SenderID    string        `bson:"senderId"`
	RecipientID string        `bson:"recipientId"`
	Content     string        `bson:"content"`
	Timestamp   time.Time     `bson:"timestamp"`
}

func (d directMessageDoc) model() models.DirectMessage {
	return models.DirectMessage{ID: d.ID.Hex(), SenderID: d.SenderID, RecipientID: d.RecipientID, Content: d.Content, Timestamp: d.Timestamp.UTC()}
}

type groupDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	CreatorID string        `bson:"creatorId"`
	Members   []string      `bson:"members"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d groupDoc) model() models.Group {
	members := d.Members
	if members == nil {
		members = []string{}
	}
	return models.Group{ID: d.ID.Hex(), Name: d.Name, CreatorID: d.CreatorID, Members: members, CreatedAt: d.CreatedAt.UTC()}
}

type groupMessageDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	GroupID    string        `bson:"groupId"`
	SenderID   string        `bson:"senderId"`
	SenderName string        `bson:"senderName"`
	Content    string        `bson:"content"`
	Timestamp  time.Time     `bson:"timestamp"`
}

func (d groupMessageDoc) model() models.GroupMessage {
	return models.GroupMessage{ID: d.ID.Hex(), GroupID: d.GroupID, SenderID: d.SenderID, SenderName: d.SenderName, Content: d.Content, Timestamp: d.Timestamp.UTC()}
}

type noteDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    string        `bson:"userId"`
	Title     string        `bson:"title"`
	Content   string        `bson:"content"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d noteDoc) model() models.Note {
	return models.Note{ID: d.ID.Hex(), UserID: d.UserID, Title: d.Title, Content: d.Content, CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC()}
}

type templateDoc struct {
	Name    string `bson:"name"`
	Subject string `bson:"subject"`
	Body    string `bson:"body"`
}
