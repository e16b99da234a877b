package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/davicafu/carexplorer/internal/settings/domain"
)

// SettingsRepoMongoDB guarda cada documento de ajustes en la colección settings.
type SettingsRepoMongoDB struct {
	coll *mongo.Collection
}

func NewSettingsRepoMongoDB(client *mongo.Client, dbName string) *SettingsRepoMongoDB {
	return &SettingsRepoMongoDB{coll: client.Database(dbName).Collection("settings")}
}

// mongoSettings mapea el documento BSON.
type mongoSettings struct {
	Key             string `bson:"_id"`
	domain.Settings `bson:",inline"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// Load decodifica sobre dest; los campos que falten en el documento no se tocan.
func (r *SettingsRepoMongoDB) Load(ctx context.Context, key string, dest *domain.Settings) error {
	doc := mongoSettings{Settings: *dest}
	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrSettingsNotFound
		}
		return err
	}
	*dest = doc.Settings
	return nil
}

func (r *SettingsRepoMongoDB) Save(ctx context.Context, key string, s domain.Settings) error {
	doc := mongoSettings{Key: key, Settings: s, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (r *SettingsRepoMongoDB) Delete(ctx context.Context, key string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Verificación en tiempo de compilación.
var _ domain.SettingsRepository = (*SettingsRepoMongoDB)(nil)
