package stuff

import (
	"errors"

	"gorm.io/gorm"

	"github.com/grillazz/stuff-and-nonsense/internal/models"
)

var (
	ErrNameTaken = errors.New("name already exists")
	ErrNotFound  = errors.New("stuff not found")
)

type CreateStuffDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdateStuffDTO struct {
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
func (s *Service) Create(dto *CreateStuffDTO) (*models.Stuff, error) {
	st := models.Stuff{Name: dto.Name, Description: dto.Description}
	if err := s.db.Create(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &st, nil
}

// CreateMany inserts a batch in one transaction; any duplicate name rolls
// the whole batch back.
func (s *Service) CreateMany(dtos []CreateStuffDTO) ([]models.Stuff, error) {
	rows := make([]models.Stuff, 0, len(dtos))
	for _, dto := range dtos {
		rows = append(rows, models.Stuff{Name: dto.Name, Description: dto.Description})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return rows, nil
}

func (s *Service) GetByName(name string) (*models.Stuff, error) {
	var st models.Stuff
	if err := s.db.First(&st, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *Service) Update(name string, dto *UpdateStuffDTO) (*models.Stuff, error) {
	st, err := s.GetByName(name)
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
		return st, nil
	}
	if err := s.db.Model(st).Updates(updates).Error; err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) Delete(name string) error {
	res := s.db.Delete(&models.Stuff{}, "name = ?", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateRandom stores an arbitrary JSON blob.
func (s *Service) CreateRandom(chaos map[string]interface{}) (*models.RandomStuff, error) {
	rs := models.RandomStuff{Chaos: chaos}
	return &rs, s.db.Create(&rs).Error
}
