package store

import (
	"context"
	"errors"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
)

// ErrProjectNotFound is returned when the requested project id is unknown.
var ErrProjectNotFound = errors.New("project not found")

// ErrClipNotFound is returned when the requested clip id is unknown.
var ErrClipNotFound = errors.New("clip not found")

// Store is the persistence surface for projects, source files and
// generated clips. It is a superset of the narrow interface the
// pipeline consumes: handlers additionally create projects and accept
// uploads through it.
type Store interface {
	pipeline.ObjectStore

	CreateProject(ctx context.Context, project *model.Project) error
	SaveSource(ctx context.Context, projectID string, src model.SourceFile, data []byte) error
	GetClip(ctx context.Context, id string) (*model.GeneratedClip, error)
}
