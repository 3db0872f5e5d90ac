package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/models"
	"github.com/avcastro/vaultbox/internal/server/repositories/repomanager"
)

// ContactService handles support/sales inquiries from the public form.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, log: log}
}

func (s *ContactService) Submit(ctx context.Context, contact *models.Contact) error {
	if contact.Name == "" || contact.Email == "" || contact.Message == "" {
		return fmt.Errorf("%w: name, email and message are required", common.ErrValidation)
	}
	if err := s.repomanager.Contacts(s.db).Create(ctx, contact); err != nil {
		return err
	}
	s.log.Info(ctx, "inquiry received", "id", contact.ID, "email", contact.Email)
	return nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).GetByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context) ([]*models.Contact, error) {
	return s.repomanager.Contacts(s.db).List(ctx)
}

func (s *ContactService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if status == "" {
		return fmt.Errorf("%w: status is required", common.ErrValidation)
	}
	return s.repomanager.Contacts(s.db).UpdateStatus(ctx, id, status)
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Contacts(s.db).Delete(ctx, id)
}
