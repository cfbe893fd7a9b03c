package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findOne decodes the single document matching filter. No match yields (nil, nil).
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// findMany decodes every document matching filter. The result is never nil.
func findMany[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}
	return docs, nil
}

// findOneAndUpdate applies update and decodes the document after modification.
func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, update any, projection any) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc T
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// findOneAndDelete removes the document with id and decodes what was removed.
func findOneAndDelete[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, projection any) (*T, error) {
	opts := options.FindOneAndDelete()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc T
	err := coll.FindOneAndDelete(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// byIDs builds an $in filter over _id.
func byIDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}
