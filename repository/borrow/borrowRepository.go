package borrowrepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"booklending/model"
	"booklending/util/database"
)

const Collection = "borrowedBooks"

type Repo interface {
	Insert(ctx context.Context, rec *model.BorrowRecord) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	ListByEmail(ctx context.Context, email string) ([]model.BorrowRecord, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) col() *mongo.Collection { return r.db.Collection(Collection) }

func (r *repo) Insert(ctx context.Context, rec *model.BorrowRecord) (primitive.ObjectID, error) {
	res, err := r.col().InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

// Delete removes a record by its own id and reports how many were deleted.
func (r *repo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *repo) ListByEmail(ctx context.Context, email string) ([]model.BorrowRecord, error) {
	cur, err := r.col().Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.BorrowRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
