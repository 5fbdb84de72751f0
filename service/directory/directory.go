package directory

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const DefaultLanguage = "en"

// Member is a chat member as known to the user directory.
type Member struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Language string `bson:"language" json:"language"`
}

// Directory resolves user identities to display names and language preferences.
// The gateway only reads from it; ownership stays with the user service.
type Directory interface {
	Members(ctx context.Context, ids []string) ([]Member, error)
}

type MongoDirectory struct {
	coll *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection("users")}
}

func (d *MongoDirectory) Members(ctx context.Context, ids []string) ([]Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := d.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "directory find members")
	}
	defer cur.Close(ctx)

	var out []Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "directory decode members")
	}
	for i := range out {
		if out[i].Language == "" {
			out[i].Language = DefaultLanguage
		}
	}
	return out, nil
}
