package shakespeare

import (
	"gorm.io/gorm"

	"github.com/grillazz/stuff-and-nonsense/internal/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ParagraphsByCharacter returns every paragraph spoken by the named
// character, across all works. An unknown character yields an empty slice.
func (s *Service) ParagraphsByCharacter(name string) ([]models.Paragraph, error) {
	var paragraphs []models.Paragraph
	// "character" is a reserved word in Postgres, keep it quoted.
	err := s.db.
		Joins(`JOIN "character" ON "character".id = paragraph.character_id`).
		Where(`"character".name = ?`, name).
		Order("paragraph.work_id, paragraph.paragraph_num").
		Find(&paragraphs).Error
	return paragraphs, err
}
