// types.go
package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoUser is a user document from the legacy bot. Numeric fields come
// back as float64 because the old code never wrote typed numbers.
type MongoUser struct {
	ID        primitive.ObjectID `bson:"_id"`
	DiscordID string             `bson:"discordid"`
	Username  string             `bson:"username"`
	Gold      float64            `bson:"gold"`
	Shards    float64            `bson:"shards"`
	Joined    *time.Time         `bson:"joined"`
}

// MongoItemStack is one entry of a legacy inventory document's items
// array.
type MongoItemStack struct {
	Name   string  `bson:"name"`
	Amount float64 `bson:"amount"`
}

// MongoInventory is a legacy per-user inventory document.
type MongoInventory struct {
	ID        primitive.ObjectID `bson:"_id"`
	DiscordID string             `bson:"discordid"`
	Items     []MongoItemStack   `bson:"items"`
}

// MongoEffect is a legacy active effect. Effects map onto boost records;
// ones without a known metric are skipped.
type MongoEffect struct {
	ID        primitive.ObjectID `bson:"_id"`
	DiscordID string             `bson:"discordid"`
	Name      string             `bson:"name"`
	Metric    string             `bson:"metric"`
	Mult      float64            `bson:"mult"`
	Expires   *time.Time         `bson:"expires"`
	Uses      float64            `bson:"uses"`
}

// TableStats tracks per-table migration counts.
type TableStats struct {
	Read    int
	Written int
	Skipped int
}

// MigrationStats aggregates the whole run.
type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
}
