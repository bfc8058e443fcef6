package bookrepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"booklending/model"
	"booklending/util/database"
)

const Collection = "books"

type Repo interface {
	Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	List(ctx context.Context, category string) ([]model.Book, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error)
	IncQuantity(ctx context.Context, id primitive.ObjectID, delta int) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) col() *mongo.Collection { return r.db.Collection(Collection) }

func (r *repo) Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	res, err := r.col().InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

func (r *repo) List(ctx context.Context, category string) ([]model.Book, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cur, err := r.col().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Book
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByID returns (nil, nil) when no book matches.
func (r *repo) ByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	var b model.Book
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateFields applies a partial $set merge and reports how many documents matched.
func (r *repo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	res, err := r.col().UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *repo) IncQuantity(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.col().UpdateByID(ctx, id, bson.M{"$inc": bson.M{"quantity": delta}})
	return err
}
