package store

import (
	"context"
	"errors"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionsCollection is the collection holding one thread document per product
const QuestionsCollection = "questions"

// MongoQuestions implements Questions on a MongoDB collection
type MongoQuestions struct {
	coll *mongo.Collection
}

// NewMongoQuestions uses the questions collection of db
func NewMongoQuestions(db *mongo.Database) *MongoQuestions {
	return &MongoQuestions{coll: db.Collection(QuestionsCollection)}
}

func (m *MongoQuestions) ThreadFor(ctx context.Context, productID uint) (*model.QuestionThread, error) {
	defer prometheus.TrackDBOperation("mongo_find")(time.Now())

	var thread model.QuestionThread
	err := m.coll.FindOne(ctx, bson.M{"product_id": productID}).Decode(&thread)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &model.QuestionThread{ProductID: productID, Items: []model.Question{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if thread.Items == nil {
		thread.Items = []model.Question{}
	}
	return &thread, nil
}

// Append pushes q onto the product's thread, creating the thread on first use.
// The single upsert keeps concurrent askers from creating two threads.
func (m *MongoQuestions) Append(ctx context.Context, productID uint, q model.Question) error {
	defer prometheus.TrackDBOperation("mongo_update")(time.Now())

	_, err := m.coll.UpdateOne(ctx,
		bson.M{"product_id": productID},
		bson.M{"$push": bson.M{"items": q}},
		options.Update().SetUpsert(true),
	)
	return err
}
