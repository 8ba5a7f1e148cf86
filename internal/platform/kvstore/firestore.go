package kvstore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultFirestoreCollection holds one document per key.
const DefaultFirestoreCollection = "kv"

// firestoreEntry is the document shape for one key.
type firestoreEntry struct {
	Key       string    `firestore:"key"`
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Firestore implements Store with one document per key.
// Keys are path-escaped to form document IDs since they may contain slashes.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a store over collection. An empty collection uses DefaultFirestoreCollection.
func NewFirestore(client *firestore.Client, collection string) *Firestore {
	if collection == "" {
		collection = DefaultFirestoreCollection
	}
	return &Firestore{client: client, collection: collection}
}

func (f *Firestore) doc(key string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(url.PathEscape(key))
}

func (f *Firestore) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := f.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("firestore get %q: %w", key, err)
	}

	var entry firestoreEntry
	if err := snap.DataTo(&entry); err != nil {
		return "", false, fmt.Errorf("firestore decode %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (f *Firestore) Set(ctx context.Context, key, value string) error {
	_, err := f.doc(key).Set(ctx, firestoreEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		if status.Code(err) == codes.ResourceExhausted {
			return fmt.Errorf("firestore set %q: %w: %w", key, ErrQuotaExceeded, err)
		}
		return fmt.Errorf("firestore set %q: %w", key, err)
	}
	return nil
}

func (f *Firestore) Remove(ctx context.Context, key string) error {
	if _, err := f.doc(key).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore delete %q: %w", key, err)
	}
	return nil
}

var _ Store = (*Firestore)(nil)
