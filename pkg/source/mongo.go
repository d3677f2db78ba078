package source

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/errors"
)

// MongoOptions configures a [Mongo] source.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout time.Duration
}

// Mongo reads pages from a MongoDB collection. Each document is one page,
// keyed by its _id, with "title" and "blocks" in the CMS JSON shape.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	if opts.URI == "" || opts.Database == "" || opts.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo source needs uri, database and collection")
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return NewMongoFromCollection(client.Database(opts.Database).Collection(opts.Collection)), nil
}

// NewMongoFromCollection wraps an existing collection. Close disconnects
// the collection's client.
func NewMongoFromCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{client: coll.Database().Client(), coll: coll}
}

func (m *Mongo) Page(ctx context.Context, id string) (block.Page, error) {
	if err := errors.ValidatePageID(id); err != nil {
		return block.Page{}, err
	}
	raw, err := m.coll.FindOne(ctx, bson.M{"_id": id}).Raw()
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return block.Page{}, notFound(id)
	}
	if err != nil {
		return block.Page{}, errors.Wrap(errors.ErrCodeNetwork, err, "find page %s", id)
	}
	return decodeDocument(raw, id)
}

// Put stores page under its id, replacing any existing document.
func (m *Mongo) Put(ctx context.Context, page block.Page) error {
	if err := errors.ValidatePageID(page.ID); err != nil {
		return err
	}
	doc, err := encodeDocument(page)
	if err != nil {
		return err
	}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": page.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store page %s", page.ID)
	}
	return nil
}

// decodeDocument converts a BSON page document to the CMS JSON shape
// through relaxed extended JSON and decodes it like any other page.
func decodeDocument(raw bson.Raw, id string) (block.Page, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return block.Page{}, errors.Wrap(errors.ErrCodeInvalidPage, err, "convert page %s", id)
	}
	return DecodePage(data, id)
}

func encodeDocument(page block.Page) (bson.D, error) {
	data, err := json.Marshal(page)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPage, err, "encode page %s", page.ID)
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPage, err, "convert page %s", page.ID)
	}
	for i, e := range doc {
		if e.Key == "id" {
			doc[i].Key = "_id"
		}
	}
	return doc, nil
}

func (m *Mongo) Name() string { return "mongo" }

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

var _ Source = (*Mongo)(nil)
