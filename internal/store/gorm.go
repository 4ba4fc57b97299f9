package store

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/capibaras/clientele/internal/models"
	"github.com/capibaras/clientele/pkg/logger"
)

// deleteBatchSize bounds how many rows a single reset delete statement
// touches, mirroring the write limits of batched backends.
const deleteBatchSize = 100

// GormClientStore implements ClientStore on a GORM handle.
type GormClientStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGormClientStore(db *gorm.DB) *GormClientStore {
	return &GormClientStore{db: db, log: logger.WithModule("store")}
}

func (s *GormClientStore) Create(ctx context.Context, client *models.Client) error {
	client.EmailIncidents = strings.ToLower(client.EmailIncidents)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Client{}).
			Where("email_incidents = ?", client.EmailIncidents).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &DuplicateEmailError{Email: client.EmailIncidents}
		}
		return tx.Create(client).Error
	})
	if err != nil {
		var dup *DuplicateEmailError
		if errors.As(err, &dup) {
			return dup
		}
		if isUniqueConstraintError(err) {
			return &DuplicateEmailError{Email: client.EmailIncidents}
		}
		return err
	}
	return nil
}

func (s *GormClientStore) Get(ctx context.Context, id string) (*models.Client, error) {
	if id == UnassignedClientID {
		return nil, nil
	}

	var client models.Client
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *GormClientStore) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	var clients []models.Client
	err := s.db.WithContext(ctx).
		Where("email_incidents = ?", strings.ToLower(email)).
		Limit(2).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	switch len(clients) {
	case 0:
		return nil, nil
	case 1:
		return &clients[0], nil
	default:
		s.log.Error("multiple clients share one incidents email", zap.String("email", email))
		return nil, nil
	}
}

func (s *GormClientStore) Update(ctx context.Context, client *models.Client) error {
	return s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", client.ID).
		Updates(map[string]any{
			"name":            client.Name,
			"email_incidents": client.EmailIncidents,
			"plan":            client.Plan,
		}).Error
}

func (s *GormClientStore) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *GormClientStore) DeleteAll(ctx context.Context) error {
	return deleteAllInBatches(ctx, s.db, &models.Client{})
}

// GormEmployeeStore implements EmployeeStore on a GORM handle.
type GormEmployeeStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGormEmployeeStore(db *gorm.DB) *GormEmployeeStore {
	return &GormEmployeeStore{db: db, log: logger.WithModule("store")}
}

func (s *GormEmployeeStore) Create(ctx context.Context, employee *models.Employee) error {
	employee.Email = strings.ToLower(employee.Email)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Employee{}).
			Where("email = ?", employee.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &DuplicateEmailError{Email: employee.Email}
		}
		return tx.Create(employee).Error
	})
	if err != nil {
		var dup *DuplicateEmailError
		if errors.As(err, &dup) {
			return dup
		}
		if isUniqueConstraintError(err) {
			return &DuplicateEmailError{Email: employee.Email}
		}
		return err
	}
	return nil
}

func (s *GormEmployeeStore) Get(ctx context.Context, id string, clientID *string) (*models.Employee, error) {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if clientID == nil {
		query = query.Where("client_id IS NULL")
	} else {
		query = query.Where("client_id = ?", *clientID)
	}

	var employee models.Employee
	err := query.First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *GormEmployeeStore) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *GormEmployeeStore) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employees []models.Employee
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Limit(2).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	switch len(employees) {
	case 0:
		return nil, nil
	case 1:
		return &employees[0], nil
	default:
		s.log.Error("multiple employees share one email", zap.String("email", email))
		return nil, nil
	}
}

func (s *GormEmployeeStore) Update(ctx context.Context, employee *models.Employee) error {
	return s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", employee.ID).
		Updates(map[string]any{
			"client_id":         employee.ClientID,
			"name":              employee.Name,
			"email":             employee.Email,
			"password":          employee.Password,
			"role":              employee.Role,
			"invitation_status": employee.InvitationStatus,
			"invitation_date":   employee.InvitationDate,
		}).Error
}

func (s *GormEmployeeStore) Delete(ctx context.Context, id string, clientID *string) error {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if clientID == nil {
		query = query.Where("client_id IS NULL")
	} else {
		query = query.Where("client_id = ?", *clientID)
	}
	return query.Delete(&models.Employee{}).Error
}

func (s *GormEmployeeStore) ListByClient(ctx context.Context, clientID string, opts ListOptions) ([]models.Employee, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("client_id = ?", clientID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	err = s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("invitation_date DESC, id ASC").
		Offset((opts.PageNumber - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *GormEmployeeStore) ListPage(ctx context.Context, clientID string, pageSize int, pageToken string) ([]models.Employee, string, error) {
	query := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("invitation_date DESC, id ASC").
		Limit(pageSize)

	if pageToken != "" {
		var anchor models.Employee
		err := s.db.WithContext(ctx).Where("id = ?", pageToken).First(&anchor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Employee{}, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		query = query.Where(
			"invitation_date < ? OR (invitation_date = ? AND id > ?)",
			anchor.InvitationDate, anchor.InvitationDate, anchor.ID,
		)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, "", err
	}

	nextToken := ""
	if len(employees) == pageSize {
		nextToken = employees[len(employees)-1].ID
	}
	return employees, nextToken, nil
}

func (s *GormEmployeeStore) DeleteAll(ctx context.Context) error {
	return deleteAllInBatches(ctx, s.db, &models.Employee{})
}

// deleteAllInBatches removes every row of model in bounded chunks so a reset
// never issues one unbounded delete.
func deleteAllInBatches(ctx context.Context, db *gorm.DB, model any) error {
	for {
		var ids []string
		err := db.WithContext(ctx).
			Model(model).
			Limit(deleteBatchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := db.WithContext(ctx).Where("id IN ?", ids).Delete(model).Error; err != nil {
			return err
		}
		if len(ids) < deleteBatchSize {
			return nil
		}
	}
}
