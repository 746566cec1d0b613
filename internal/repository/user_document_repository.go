package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aozu-ops-hub/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const (
	lastUpdatedField = "lastUpdated"
	maxPutAttempts   = 3
)

// UserDocumentRepository stores one document per user holding the synced
// slices. Writes merge: fields not named in a call are left as they are.
type UserDocumentRepository interface {
	GetDocument(ctx context.Context, userID string) (*domain.RemoteDocument, error)
	SetFields(ctx context.Context, userID string, fields map[domain.Slice]json.RawMessage) error
}

type userDocumentRepository struct {
	client *kivik.Client
	dbName string
	now    func() time.Time
}

func NewUserDocumentRepository(client *kivik.Client, dbName string) UserDocumentRepository {
	return &userDocumentRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}
}

func docID(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func (r *userDocumentRepository) GetDocument(ctx context.Context, userID string) (*domain.RemoteDocument, error) {
	raw, err := r.fetch(ctx, userID)
	if err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user document: %w: %w", classify(err), err)
	}

	return decodeDocument(userID, raw)
}

func (r *userDocumentRepository) SetFields(ctx context.Context, userID string, fields map[domain.Slice]json.RawMessage) error {
	db := r.client.DB(r.dbName)

	var lastErr error
	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		existing, err := r.fetch(ctx, userID)
		if err != nil {
			if kivik.HTTPStatus(err) != http.StatusNotFound {
				return fmt.Errorf("failed to fetch user document for update: %w: %w", classify(err), err)
			}
			existing = make(map[string]json.RawMessage)
		}

		if err := mergeFields(existing, userID, fields, r.now()); err != nil {
			return err
		}

		_, err = db.Put(ctx, docID(userID), existing)
		if err == nil {
			return nil
		}
		if kivik.HTTPStatus(err) != http.StatusConflict {
			return fmt.Errorf("failed to write user document: %w: %w", classify(err), err)
		}
		// Someone else bumped _rev between our read and write; re-read and retry.
		lastErr = err
	}

	return fmt.Errorf("failed to write user document after %d attempts: %w: %w", maxPutAttempts, domain.ErrRemoteUnavailable, lastErr)
}

func (r *userDocumentRepository) fetch(ctx context.Context, userID string) (map[string]json.RawMessage, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(ctx, docID(userID))
	var raw map[string]json.RawMessage
	if err := row.ScanDoc(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// mergeFields applies a partial update to a raw CouchDB document in place,
// keeping _id, _rev and every field that is not being written.
func mergeFields(doc map[string]json.RawMessage, userID string, fields map[domain.Slice]json.RawMessage, now time.Time) error {
	for slice, value := range fields {
		d, err := domain.Describe(slice)
		if err != nil {
			return err
		}
		doc[d.Field] = value
	}

	stamp, err := json.Marshal(now.UTC())
	if err != nil {
		return fmt.Errorf("failed to encode timestamp: %w", err)
	}
	doc[lastUpdatedField] = stamp

	uid, _ := json.Marshal(userID)
	doc["user_id"] = uid

	return nil
}

func decodeDocument(userID string, raw map[string]json.RawMessage) (*domain.RemoteDocument, error) {
	doc := &domain.RemoteDocument{
		UserID: userID,
		Fields: make(map[domain.Slice]json.RawMessage),
	}

	for key, value := range raw {
		if key == lastUpdatedField {
			if err := json.Unmarshal(value, &doc.LastUpdated); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", lastUpdatedField, err)
			}
			continue
		}
		if slice, ok := domain.ParseSlice(key); ok {
			doc.Fields[slice] = value
		}
	}

	return doc, nil
}

func classify(err error) error {
	switch kivik.HTTPStatus(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrPermissionDenied
	default:
		return domain.ErrRemoteUnavailable
	}
}
