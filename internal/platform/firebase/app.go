// Package firebase initializes the Firebase Admin SDK clients the server uses.
package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// Config selects the Firebase project and which clients to create.
type Config struct {
	ProjectID string
	// SkipFirestore leaves Clients.Firestore nil when profiles are stored
	// elsewhere.
	SkipFirestore bool
}

// Clients holds the initialized SDK clients.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients creates the Firebase app and its clients. Credentials come
// from Application Default Credentials; emulator hosts are honored through
// FIREBASE_AUTH_EMULATOR_HOST and FIRESTORE_EMULATOR_HOST.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase project id is required")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID})
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init auth client: %w", err)
	}
	clients := &Clients{Auth: authClient}

	if !cfg.SkipFirestore {
		fs, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firestore client: %w", err)
		}
		clients.Firestore = fs
	}

	return clients, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
