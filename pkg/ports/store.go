package ports

import (
	"context"

	"github.com/aretw0/minsky/pkg/domain"
)

// ProgramStore defines the interface for persisting programs by name.
type ProgramStore interface {
	// Save persists the program under name, replacing any previous version.
	// Returns domain.ErrInvalidProgramName if name is not a valid key.
	Save(ctx context.Context, name string, program *domain.Program) error

	// Load retrieves the program stored under name.
	// Returns domain.ErrProgramNotFound if the program does not exist.
	Load(ctx context.Context, name string) (*domain.Program, error)

	// Delete removes the program. Deleting a missing program is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored programs, sorted.
	List(ctx context.Context) ([]string, error)
}
