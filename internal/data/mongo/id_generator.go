package mongo

import "go.mongodb.org/mongo-driver/bson/primitive"

// ObjectIDGenerator issues transaction ids as hex ObjectIDs, so ids handed out before a
// record is written sort the same way as the stored _id.
type ObjectIDGenerator struct{}

func NewObjectIDGenerator() *ObjectIDGenerator {
	return &ObjectIDGenerator{}
}

func (g *ObjectIDGenerator) Generate() string {
	return primitive.NewObjectID().Hex()
}
