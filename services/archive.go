package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/google/uuid"
)

// Archiver keeps a snapshot of finished tournaments outside the database.
type Archiver interface {
	Archive(ctx context.Context, t *models.Tournament) (string, error)
}

type bucketArchiver struct {
	uploader storage.FileUploader
}

func NewArchiver(uploader storage.FileUploader) Archiver {
	return &bucketArchiver{uploader: uploader}
}

func ArchiveKey(tournamentID uuid.UUID) string {
	return fmt.Sprintf("tournaments/%s/bracket.json", tournamentID)
}

// Archive uploads the tournament with its attached bracket and returns the public URL.
func (a *bucketArchiver) Archive(ctx context.Context, t *models.Tournament) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode bracket snapshot: %w", err)
	}
	key := ArchiveKey(t.ID)
	if _, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload bracket snapshot %s: %w", key, err)
	}
	return a.uploader.GetPublicURL(key), nil
}
