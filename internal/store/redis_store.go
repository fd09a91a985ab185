package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clipforge/api/internal/client"
	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
)

const recordTTL = 7 * 24 * time.Hour

// RedisStore keeps project/clip records as JSON in Redis and byte
// payloads in R2. When R2 is not configured, bytes land in Redis too so
// development still works end to end.
type RedisStore struct {
	redis   *redis.Client
	storage client.StorageClient
}

// NewRedisStore builds the store; storage may be nil (bytes in Redis).
func NewRedisStore(redisClient *redis.Client, storage client.StorageClient) *RedisStore {
	return &RedisStore{redis: redisClient, storage: storage}
}

var _ Store = (*RedisStore)(nil)

func projectKey(id string) string { return "project:" + id }
func clipKey(id string) string    { return "clip:" + id }
func fileKey(id string) string    { return "file:" + id }
func sourceKey(id string) string  { return "sources/" + id }

// CreateProject writes a fresh project record.
func (s *RedisStore) CreateProject(ctx context.Context, project *model.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	return s.redis.Set(ctx, projectKey(project.ID), data, recordTTL).Err()
}

// GetProject loads a project record.
func (s *RedisStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	data, err := s.redis.Get(ctx, projectKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies a partial update to a project record.
func (s *RedisStore) UpdateProject(ctx context.Context, id string, update pipeline.ProjectUpdate) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	if update.Error != nil {
		project.Error = *update.Error
	}
	if update.ClipIDs != nil {
		project.ClipIDs = update.ClipIDs
	}
	if update.CompletedAt != nil {
		project.CompletedAt = update.CompletedAt
	}
	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	return s.redis.Set(ctx, projectKey(id), data, recordTTL).Err()
}

// SaveSource stores the uploaded source bytes and attaches the file
// descriptor to the project record.
func (s *RedisStore) SaveSource(ctx context.Context, projectID string, src model.SourceFile, data []byte) error {
	if s.storage != nil {
		if _, err := s.storage.Upload(ctx, sourceKey(src.ID), bytes.NewReader(data), "video/mp4"); err != nil {
			return err
		}
	} else {
		if err := s.redis.Set(ctx, fileKey(src.ID), data, recordTTL).Err(); err != nil {
			return err
		}
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	project.Source = src
	out, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	return s.redis.Set(ctx, projectKey(projectID), out, recordTTL).Err()
}

// GetFile returns the raw bytes for a stored source file.
func (s *RedisStore) GetFile(ctx context.Context, id string) ([]byte, error) {
	if s.storage != nil {
		data, err := s.storage.Download(ctx, sourceKey(id))
		if err != nil {
			if errors.Is(err, client.ErrObjectNotFound) {
				return nil, pipeline.ErrSourceNotFound
			}
			return nil, err
		}
		return data, nil
	}
	data, err := s.redis.Get(ctx, fileKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, pipeline.ErrSourceNotFound
		}
		return nil, err
	}
	return data, nil
}

// SaveClip persists a generated clip: bytes to storage, record to Redis.
func (s *RedisStore) SaveClip(ctx context.Context, clip *model.GeneratedClip) (string, error) {
	if s.storage != nil && len(clip.VideoBytes) > 0 {
		key := fmt.Sprintf("clips/%s/%s.mp4", clip.ProjectID, clip.ID)
		if _, err := s.storage.Upload(ctx, key, bytes.NewReader(clip.VideoBytes), "video/mp4"); err != nil {
			return "", err
		}
		clip.VideoKey = key
	}
	data, err := json.Marshal(clip)
	if err != nil {
		return "", fmt.Errorf("failed to marshal clip: %w", err)
	}
	if err := s.redis.Set(ctx, clipKey(clip.ID), data, recordTTL).Err(); err != nil {
		return "", err
	}
	return clip.ID, nil
}

// GetClip loads a clip record.
func (s *RedisStore) GetClip(ctx context.Context, id string) (*model.GeneratedClip, error) {
	data, err := s.redis.Get(ctx, clipKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrClipNotFound
		}
		return nil, err
	}
	var clip model.GeneratedClip
	if err := json.Unmarshal(data, &clip); err != nil {
		return nil, err
	}
	return &clip, nil
}
