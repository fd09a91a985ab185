package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/store"
)

// ProjectService handles project registration and source uploads.
type ProjectService struct {
	store store.Store
}

func NewProjectService(st store.Store) *ProjectService {
	return &ProjectService{store: st}
}

// CreateProject registers a new project for a user.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, req *model.CreateProjectRequest) (*model.Project, error) {
	project := &model.Project{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Status:    model.ProjectStatusCreated,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject returns a project by id.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return s.store.GetProject(ctx, id)
}

// UploadSource attaches a source video to a project. The bytes land in
// object storage (or the fallback store) keyed by a fresh file id.
func (s *ProjectService) UploadSource(ctx context.Context, projectID, name string, data []byte) (*model.UploadSourceResponse, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("project lookup failed: %w", err)
	}

	src := model.SourceFile{
		ID:         uuid.New().String(),
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}

	if err := s.store.SaveSource(ctx, projectID, src, data); err != nil {
		return nil, fmt.Errorf("failed to save source: %w", err)
	}

	return &model.UploadSourceResponse{
		ProjectID: projectID,
		FileID:    src.ID,
		Name:      src.Name,
		Size:      src.Size,
	}, nil
}
