package mirror

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/LinukPerera/IoT-Buoy-2025/internal/domain"
)

// RTDBMirror publishes readings to a Firebase Realtime Database.
type RTDBMirror struct {
	client *db.Client
}

func NewRTDBMirror(ctx context.Context, databaseURL, credentialsFile string) (*RTDBMirror, error) {
	conf := &firebase.Config{DatabaseURL: databaseURL}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create realtime database client: %w", err)
	}

	return &RTDBMirror{client: client}, nil
}

// Publish overwrites the current entry and upserts the historical entry for
// the reading. Both writes target the same snapshot payload.
func (m *RTDBMirror) Publish(ctx context.Context, r domain.Reading) error {
	data := snapshot(r)

	if err := m.client.NewRef(currentPath).Set(ctx, data); err != nil {
		return fmt.Errorf("mirror current write: %w", err)
	}

	ref := m.client.NewRef(historicalPath).Child(historicalKey(r.ID))
	if err := ref.Set(ctx, data); err != nil {
		return fmt.Errorf("mirror historical write: %w", err)
	}
	return nil
}

func (m *RTDBMirror) Enabled() bool { return true }

func (m *RTDBMirror) Close() error { return nil }
