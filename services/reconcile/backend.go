package reconcile

import (
	"context"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
)

// Backend is the catalog surface the engine drives. The HTTP client implements
// it remotely; LocalBackend implements it directly over the store.
type Backend interface {
	Search(ctx context.Context, term string) ([]services.SearchRow, error)

	CreateUniversity(ctx context.Context, name string) (*model.University, error)
	CreateDepartment(ctx context.Context, name string, universityID uint) (*model.Department, error)
	CreateContact(ctx context.Context, role model.ContactRole, in services.ContactInput) (*model.Contact, error)

	UpdateUniversity(ctx context.Context, id uint, name string) (*model.University, error)
	UpdateDepartment(ctx context.Context, id uint, name string) (*model.Department, error)
	UpdateContact(ctx context.Context, role model.ContactRole, id uint, name, email string) (*model.Contact, error)

	DeleteContact(ctx context.Context, role model.ContactRole, id uint) error
}

// LocalBackend serves the engine from in-process services
type LocalBackend struct {
	*services.SearchService
	*services.DirectoryService
}

// NewLocalBackend combines the search and directory services into a Backend
func NewLocalBackend(search *services.SearchService, directory *services.DirectoryService) *LocalBackend {
	return &LocalBackend{SearchService: search, DirectoryService: directory}
}

var _ Backend = (*LocalBackend)(nil)
