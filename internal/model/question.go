package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unanswered is the answer text of a question no admin has replied to yet
const Unanswered = "Answer wasn't sent"

// QuestionThread groups every question asked about one product. It is stored
// as a single document.
type QuestionThread struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID uint               `json:"product_id" bson:"product_id"`
	Items     []Question         `json:"items" bson:"items"`
}

// Question is one entry of a thread
type Question struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	UserID  uint               `json:"user_id" bson:"user_id"`
	Text    string             `json:"question" bson:"question"`
	AdminID *uint              `json:"admin_id,omitempty" bson:"admin_id,omitempty"`
	Answer  string             `json:"answer" bson:"answer"`
	AskedAt time.Time          `json:"asked_at" bson:"asked_at"`
}

// Answered reports whether an admin has replied
func (q Question) Answered() bool {
	return q.Answer != "" && q.Answer != Unanswered
}
