package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID parses a hex object identifier. A malformed value yields a BadRequest
// error whose message names the resource, e.g. "Invalid Product ID.".
func ParseID(hex, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, NewBadRequest("Invalid " + resource + " ID.")
	}
	return id, nil
}

// ParseIDList parses a comma separated list of identifiers, skipping blanks.
func ParseIDList(csv, resource string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := ParseID(part, resource)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UniqueIDs returns ids with duplicates and nil ids removed, preserving first-seen order.
func UniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
