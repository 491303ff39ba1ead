package coverage

import (
	"context"
	"fmt"

	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	pkgerrors "github.com/dcortinas/fablink-backend/pkg/errors"
)

// DirectorySource is the slice of the provider service this package
// reads. The implementation already applies the active, verified, and
// directory-visible filters.
type DirectorySource interface {
	ActiveVerified(ctx context.Context) ([]models.Provider, error)
}

// Service computes coverage estimates over the live directory.
type Service interface {
	Estimate(ctx context.Context, process, material string) (*Estimate, error)
}

type service struct {
	directory DirectorySource
	caps      db.Capabilities
}

// NewService builds a coverage service over a directory source.
func NewService(directory DirectorySource, caps db.Capabilities) (Service, error) {
	if directory == nil {
		return nil, fmt.Errorf("directory source required")
	}
	return &service{directory: directory, caps: caps}, nil
}

func (s *service) Estimate(ctx context.Context, process, material string) (*Estimate, error) {
	providerRows, err := s.directory.ActiveVerified(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load directory")
	}
	estimate := Compute(process, material, providerRows, s.caps.ProviderDetails.Materials)
	if estimate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "process is required")
	}
	return estimate, nil
}
