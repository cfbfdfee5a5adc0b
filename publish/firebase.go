package publish

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// Firebase publishes to a Realtime Database
type Firebase struct {
	client *db.Client
}

// NewFirebase initializes the app once from service-account JSON and returns
// a publisher bound to databaseURL
func NewFirebase(ctx context.Context, databaseURL string, credentialsJSON []byte) (*Firebase, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: databaseURL,
	}, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open realtime database: %w", err)
	}

	return &Firebase{client: client}, nil
}

// Publish implements Publisher with a multi-path update at path
func (f *Firebase) Publish(ctx context.Context, path string, fields map[string]any) error {
	if err := f.client.NewRef(path).Update(ctx, fields); err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	return nil
}
