package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/grillazz/stuff-and-nonsense/internal/models"
	"github.com/grillazz/stuff-and-nonsense/internal/pkg/password"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("password is incorrect")
)

type RegisterDTO struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register stores a new user with a bcrypt password digest. The unique
// index on email is the duplicate authority, so two concurrent
// registrations cannot both slip through.
func (s *Service) Register(dto *RegisterDTO) (*models.User, error) {
	digest, err := password.Hash(dto.Password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Password:  digest,
	}
	if err := s.db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

// Authenticate looks up a user by email and checks the password against the
// stored digest. The two failure modes are distinct on purpose: clients of
// this API rely on telling "no such account" apart from "bad password".
func (s *Service) Authenticate(email, plain string) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !password.Check(plain, u.Password) {
		return nil, ErrWrongPassword
	}
	return &u, nil
}

// GetByEmail returns the user with the given email, or ErrUserNotFound.
func (s *Service) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
