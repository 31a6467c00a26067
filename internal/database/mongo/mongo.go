// Package mongo is a go.mongodb.org/mongo-driver-backed implementation
// of database.Database, offered as a second swappable persistence
// backend alongside sqlite for libraries large enough to want a
// document store's horizontal scale-out rather than a single SQLite
// file. A "fingerprints" collection holds one document per entry
// (indexed on "key"); a "songs" collection holds the dense song
// table, keyed by an auto-incrementing counter document so song_id
// allocation stays dense and reproducible.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"constellation/internal/database"
	"constellation/internal/fingerprint"
)

// fingerprintDoc mirrors one (key, song_id, anchor_time) entry.
type fingerprintDoc struct {
	Key        int64  `bson:"key"`
	SongID     uint16 `bson:"song_id"`
	AnchorTime uint16 `bson:"anchor_time"`
}

// songDoc mirrors one song-table row, using SongID as the document
// _id so RegisterSong's upsert assigns it atomically.
type songDoc struct {
	SongID           uint16 `bson:"_id"`
	Name             string `bson:"name"`
	FingerprintCount int    `bson:"fingerprint_count"`
}

// counterDoc tracks the next dense song_id to assign: song_ids are
// dense and assigned in enrollment order starting at 1, which rules
// out relying on Mongo's own ObjectID scheme, since that isn't
// numerically dense.
type counterDoc struct {
	ID   string `bson:"_id"`
	Next uint16 `bson:"next"`
}

// DB wraps a mongo.Database, implementing database.Database.
type DB struct {
	client       *mongo.Client
	fingerprints *mongo.Collection
	songs        *mongo.Collection
	counters     *mongo.Collection
}

// Connect dials uri and ensures the fingerprints.key index exists.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	db := client.Database(dbName)
	fpColl := db.Collection("fingerprints")

	_, err = fpColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "key", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("mongo: creating fingerprints.key index: %w", err)
	}

	return &DB{
		client:       client,
		fingerprints: fpColl,
		songs:        db.Collection("songs"),
		counters:     db.Collection("counters"),
	}, nil
}

func (d *DB) RegisterSong(name string) (uint16, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	after := options.After
	result := d.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "song_id"},
		bson.M{"$inc": bson.M{"next": 1}},
		&options.FindOneAndUpdateOptions{Upsert: boolPtr(true), ReturnDocument: &after},
	)

	var counter counterDoc
	// Seed the counter starting at 1 (0 is reserved for queries) on
	// first use, matching the in-memory backend's allocation scheme.
	if err := result.Decode(&counter); err != nil {
		if err == mongo.ErrNoDocuments {
			counter = counterDoc{ID: "song_id", Next: 1}
			if _, err := d.counters.InsertOne(ctx, counter); err != nil {
				return 0, fmt.Errorf("mongo: seeding song_id counter: %w", err)
			}
		} else {
			return 0, fmt.Errorf("mongo: incrementing song_id counter: %w", err)
		}
	}

	id := counter.Next
	if id == 0 {
		id = 1
	}

	doc := songDoc{SongID: id, Name: name, FingerprintCount: 0}
	if _, err := d.songs.InsertOne(ctx, doc); err != nil {
		return 0, fmt.Errorf("mongo: registering song %q: %w", name, err)
	}
	return id, nil
}

func (d *DB) Insert(key fingerprint.Key, value fingerprint.Value) error {
	return d.InsertBatch([]fingerprint.Entry{{Key: key, Value: value}})
}

func (d *DB) InsertBatch(entries []fingerprint.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	docs := make([]interface{}, len(entries))
	counts := make(map[uint16]int)
	for i, e := range entries {
		docs[i] = fingerprintDoc{Key: int64(e.Key), SongID: e.Value.SongID, AnchorTime: e.Value.AnchorTime}
		counts[e.Value.SongID]++
	}

	if _, err := d.fingerprints.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo: inserting %d fingerprints: %w", len(docs), err)
	}

	for songID, count := range counts {
		_, err := d.songs.UpdateByID(ctx, songID, bson.M{"$inc": bson.M{"fingerprint_count": count}})
		if err != nil {
			return fmt.Errorf("mongo: updating fingerprint_count for song %d: %w", songID, err)
		}
	}
	return nil
}

func (d *DB) Lookup(key fingerprint.Key) ([]fingerprint.Value, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := d.fingerprints.Find(ctx, bson.M{"key": int64(key)})
	if err != nil {
		return nil, fmt.Errorf("mongo: lookup: %w", err)
	}
	defer cur.Close(ctx)

	var out []fingerprint.Value
	for cur.Next(ctx) {
		var doc fingerprintDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding lookup result: %w", err)
		}
		out = append(out, fingerprint.Value{SongID: doc.SongID, AnchorTime: doc.AnchorTime})
	}
	return out, cur.Err()
}

func (d *DB) SongByID(id uint16) (database.SongInfo, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var doc songDoc
	err := d.songs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	switch err {
	case nil:
		return database.SongInfo{ID: doc.SongID, Name: doc.Name, FingerprintCount: doc.FingerprintCount}, true, nil
	case mongo.ErrNoDocuments:
		return database.SongInfo{}, false, nil
	default:
		return database.SongInfo{}, false, fmt.Errorf("mongo: reading song %d: %w", id, err)
	}
}

func (d *DB) Songs() ([]database.SongInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := d.songs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing songs: %w", err)
	}
	defer cur.Close(ctx)

	var out []database.SongInfo
	for cur.Next(ctx) {
		var doc songDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding song: %w", err)
		}
		out = append(out, database.SongInfo{ID: doc.SongID, Name: doc.Name, FingerprintCount: doc.FingerprintCount})
	}
	return out, cur.Err()
}

func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

func boolPtr(b bool) *bool { return &b }
