package catalogsvc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"booklending/model"
)

var (
	ErrNotFound    = errors.New("book not found")
	ErrBadQuantity = errors.New("quantity must be a non-negative integer")
)

type Repo interface {
	Insert(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	List(ctx context.Context, category string) ([]model.Book, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*model.Book, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error)
}

type Service interface {
	// Add inserts a new book. Descriptive fields pass through untouched;
	// quantity is coerced to an integer and rejected when it cannot be.
	Add(ctx context.Context, doc map[string]any) (primitive.ObjectID, error)

	// List returns all books, or only those in category when it is non-empty.
	List(ctx context.Context, category string) ([]model.Book, error)

	// Get returns the book with the given id.
	Get(ctx context.Context, id primitive.ObjectID) (*model.Book, error)

	// Update applies a partial field merge. The id field itself is immutable
	// and stripped from the input.
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, doc map[string]any) (primitive.ObjectID, error) {
	q, err := coerceQuantity(doc["quantity"])
	if err != nil {
		return primitive.NilObjectID, err
	}

	out := bson.M{}
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	out["quantity"] = q

	return s.r.Insert(ctx, out)
}

func (s *service) List(ctx context.Context, category string) ([]model.Book, error) {
	return s.r.List(ctx, category)
}

func (s *service) Get(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	out := bson.M{}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	if raw, ok := out["quantity"]; ok {
		q, err := coerceQuantity(raw)
		if err != nil {
			return err
		}
		out["quantity"] = q
	}
	if len(out) == 0 {
		// Nothing to merge; still report whether the id resolves.
		_, err := s.Get(ctx, id)
		return err
	}

	matched, err := s.r.UpdateFields(ctx, id, out)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// coerceQuantity turns the loosely typed quantity a JSON client sends into an
// integer. Missing, non-numeric, fractional, or negative input is rejected.
func coerceQuantity(v any) (int, error) {
	switch q := v.(type) {
	case int:
		if q < 0 {
			return 0, ErrBadQuantity
		}
		return q, nil
	case int32:
		return coerceQuantity(int(q))
	case int64:
		return coerceQuantity(int(q))
	case float64:
		if q != float64(int(q)) {
			return 0, ErrBadQuantity
		}
		return coerceQuantity(int(q))
	case json.Number:
		n, err := q.Int64()
		if err != nil {
			return 0, ErrBadQuantity
		}
		return coerceQuantity(int(n))
	case string:
		n, err := strconv.Atoi(q)
		if err != nil {
			return 0, ErrBadQuantity
		}
		return coerceQuantity(n)
	default:
		return 0, ErrBadQuantity
	}
}
