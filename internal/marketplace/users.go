package marketplace

import (
	"errors"

	"github.com/AlvinAbiero/online-marketplace/models"
	"github.com/AlvinAbiero/online-marketplace/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Role      string `json:"role" validate:"omitempty,oneof=buyer seller"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthPayload is returned by Register and Login.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Register(input RegisterInput) (*AuthPayload, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrValidation("User with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInternal()
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, ErrInternal()
	}

	role := input.Role
	if role == "" {
		role = models.RoleBuyer
	}

	user := models.User{
		Email:     input.Email,
		Password:  hashed,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      role,
	}

	if err := s.DB.Create(&user).Error; err != nil {
		return nil, ErrInternal()
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, ErrInternal()
	}

	return &AuthPayload{Token: token, User: &user}, nil
}

func (s *Service) Login(input LoginInput) (*AuthPayload, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return nil, ErrValidation("Invalid email or password")
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, ErrValidation("Invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, ErrInternal()
	}

	return &AuthPayload{Token: token, User: &user}, nil
}

// Me returns the authenticated user's record.
func (s *Service) Me(p *Principal) (*models.User, error) {
	if err := RequireAuth(p); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, p.UserID).Error; err != nil {
		return nil, ErrNotFound("User")
	}
	return &user, nil
}

// GetUser looks up any user by id. Used to resolve a verified token into
// a principal and to expand message/order relations.
func (s *Service) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, ErrNotFound("User")
	}
	return &user, nil
}
