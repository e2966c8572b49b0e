package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"messenger_service/internal/backend/domain"
	errprocess "messenger_service/pkg/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	db          *mongo.Database
	collections map[string]bool
}

// NewMongoStore one mongo collection per resource; _id stays internal
func NewMongoStore(db *mongo.Database, collections []string) Store {
	known := make(map[string]bool, len(collections))
	for _, c := range collections {
		known[c] = true
	}
	return &mongoStore{db: db, collections: known}
}

var hideObjectID = bson.M{"_id": 0}

func (s *mongoStore) coll(name string) (*mongo.Collection, error) {
	if !s.collections[name] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return s.db.Collection(name), nil
}

func (s *mongoStore) List(ctx context.Context, collection string, filter map[string]string) ([]domain.Record, error) {
	coll, err := s.coll(collection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(hideObjectID)
	cur, err := coll.Find(ctx, queryFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromBSON(d))
	}
	return out, nil
}

func (s *mongoStore) Get(ctx context.Context, collection, id string) (domain.Record, error) {
	coll, err := s.coll(collection)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = coll.FindOne(ctx, idFilter(id), options.FindOne().SetProjection(hideObjectID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errprocess.NotFound(collection, id)
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(doc), nil
}

func (s *mongoStore) Create(ctx context.Context, collection string, record domain.Record) (domain.Record, error) {
	coll, err := s.coll(collection)
	if err != nil {
		return nil, err
	}

	n, err := coll.CountDocuments(ctx, idFilter(record.ID()))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, errprocess.Validation(domain.IDField, fmt.Sprintf("duplicate id %s", record.ID()))
	}

	doc := toBSON(record)
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return fromBSON(doc), nil
}

func (s *mongoStore) Patch(ctx context.Context, collection, id string, fields domain.Record) (domain.Record, error) {
	coll, err := s.coll(collection)
	if err != nil {
		return nil, err
	}

	set := toBSON(fields)
	delete(set, domain.IDField)
	if len(set) == 0 {
		return s.Get(ctx, collection, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(hideObjectID)
	var doc bson.M
	err = coll.FindOneAndUpdate(ctx, idFilter(id), bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errprocess.NotFound(collection, id)
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(doc), nil
}

func (s *mongoStore) Delete(ctx context.Context, collection, id string) error {
	coll, err := s.coll(collection)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errprocess.NotFound(collection, id)
	}
	return nil
}

func idFilter(id string) bson.M {
	return bson.M{domain.IDField: bson.M{"$in": candidates(id)}}
}

// queryFilter string-equality filter; every value also matches its number or bool form
func queryFilter(filter map[string]string) bson.M {
	q := bson.M{}
	for k, v := range filter {
		if v == "null" {
			q[k] = bson.M{"$in": bson.A{nil, "null"}}
			continue
		}
		q[k] = bson.M{"$in": candidates(v)}
	}
	return q
}

func candidates(v string) bson.A {
	out := bson.A{v}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		out = append(out, i, int32(i), float64(i))
	} else if f, err := strconv.ParseFloat(v, 64); err == nil {
		out = append(out, f)
	}
	if b, err := strconv.ParseBool(v); err == nil && (v == "true" || v == "false") {
		out = append(out, b)
	}
	return out
}

// toBSON json.Number becomes int64 or float64 so numbers stay numbers in mongo
func toBSON(r domain.Record) bson.M {
	doc := make(bson.M, len(r))
	for k, v := range r {
		doc[k] = normalizeJSON(v)
	}
	return doc
}

func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		m := make(bson.M, len(t))
		for k, e := range t {
			m[k] = normalizeJSON(e)
		}
		return m
	case []any:
		a := make(bson.A, len(t))
		for i, e := range t {
			a[i] = normalizeJSON(e)
		}
		return a
	default:
		return v
	}
}

func fromBSON(doc bson.M) domain.Record {
	r := make(domain.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		r[k] = plain(v)
	}
	return r
}

// plain driver types back to encoding/json friendly values
func plain(v any) any {
	switch t := v.(type) {
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.A:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = plain(e)
		}
		return a
	case []any:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = plain(e)
		}
		return a
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.DateTime:
		return t.Time().UTC()
	case int32:
		return int64(t)
	default:
		return v
	}
}
