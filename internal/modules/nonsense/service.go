package nonsense

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/grillazz/stuff-and-nonsense/internal/models"
)

const importSheet = "New Nonsense"

var (
	ErrNameTaken = errors.New("name already exists")
	ErrNotFound  = errors.New("nonsense not found")
	ErrBadSheet  = errors.New("workbook is missing the expected sheet")
)

type CreateNonsenseDTO struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateNonsenseDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create inserts a record. The unique index on name decides duplicates.
func (s *Service) Create(dto *CreateNonsenseDTO) (*models.Nonsense, error) {
	n := models.Nonsense{Name: dto.Name, Description: dto.Description}
	if err := s.db.Create(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &n, nil
}

// Upsert inserts or, on a name collision, updates the description.
func (s *Service) Upsert(dto *CreateNonsenseDTO) (*models.Nonsense, error) {
	n := models.Nonsense{Name: dto.Name, Description: dto.Description}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(&n).Error
	if err != nil {
		return nil, err
	}
	return s.GetByName(dto.Name)
}

func (s *Service) GetByName(name string) (*models.Nonsense, error) {
	var n models.Nonsense
	if err := s.db.First(&n, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (s *Service) Update(name string, dto *UpdateNonsenseDTO) (*models.Nonsense, error) {
	n, err := s.GetByName(name)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if len(updates) == 0 {
		return n, nil
	}
	if err := s.db.Model(n).Updates(updates).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Delete(name string) error {
	res := s.db.Delete(&models.Nonsense{}, "name = ?", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportXLSX reads the "New Nonsense" sheet (name, description columns with
// a header row) and upserts every row. Returns the number of records taken
// from the sheet.
func (s *Service) ImportXLSX(r io.Reader) (int, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("workbook open failed: %w", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(importSheet)
	if err != nil {
		return 0, ErrBadSheet
	}

	imported := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			if i == 0 || len(row) == 0 || row[0] == "" {
				continue
			}
			n := models.Nonsense{Name: row[0]}
			if len(row) > 1 && row[1] != "" {
				desc := row[1]
				n.Description = &desc
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
			}).Create(&n).Error; err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
