package service

import (
	"context"
	"fmt"
	"log"
	"unicode"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
)

type UserService struct {
	userRepository   ports.UserRepository
	jwtRepoInterface ports.JWTRepositoryInterface
	database         *config.Database
}

func NewUserService(userRepository ports.UserRepository, jwtRepoInterface ports.JWTRepositoryInterface, database *config.Database) *UserService {
	return &UserService{
		userRepository:   userRepository,
		jwtRepoInterface: jwtRepoInterface,
		database:         database,
	}
}

// Register создаёт учётную запись. Регистрация доступна только администратору
func (s *UserService) Register(ctx context.Context, actor model.Actor, login, name, password, role string) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: создавать пользователей может только администратор", apperrors.ErrUnauthorized)
	}

	if len(login) < 3 {
		return nil, fmt.Errorf("%w: логин должен быть не меньше 3 символов", apperrors.ErrValidation)
	}
	for _, c := range login {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '.' && c != '_' {
			return nil, fmt.Errorf("%w: логин должен содержать только буквы, цифры, точку и подчёркивание", apperrors.ErrValidation)
		}
	}
	if role != model.RoleAdmin && role != model.RoleUser && role != model.RoleViewer {
		return nil, fmt.Errorf("%w: недопустимая роль %q", apperrors.ErrValidation, role)
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[UserService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		Login:        login,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Status:       model.UserStatusActive,
	}

	created, err := s.userRepository.CreateUser(ctx, s.database.DB, user)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 {
		return fmt.Errorf("пароль должен содержать буквы в разных регистрах")
	}
	if digitCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}

func (s *UserService) GetUser(ctx context.Context, actor model.Actor, id int64) (*model.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, fmt.Errorf("%w: доступ запрещён", apperrors.ErrUnauthorized)
	}
	return s.userRepository.FindByID(ctx, s.database.DB, id)
}

func (s *UserService) UpdateUser(ctx context.Context, actor model.Actor, updatedUser *model.User) error {
	if !actor.IsAdmin() && actor.UserID != updatedUser.ID {
		return fmt.Errorf("%w: доступ запрещён", apperrors.ErrUnauthorized)
	}
	if !actor.IsAdmin() {
		// смена роли самому себе запрещена
		current, err := s.userRepository.FindByID(ctx, s.database.DB, updatedUser.ID)
		if err != nil {
			return err
		}
		updatedUser.Role = current.Role
	}
	return s.userRepository.UpdateUser(ctx, s.database.DB, updatedUser)
}

func (s *UserService) UpdatePassword(ctx context.Context, actor model.Actor, id int64, newPassword string) error {
	if !actor.IsAdmin() && actor.UserID != id {
		return fmt.Errorf("%w: доступ запрещён", apperrors.ErrUnauthorized)
	}
	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepository.UpdatePassword(ctx, s.database.DB, id, hash)
}

// Deactivate отключает учётную запись, не удаляя её: ссылки из журналов
// перемещений и выдач должны оставаться разрешимыми
func (s *UserService) Deactivate(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: отключать пользователей может только администратор", apperrors.ErrUnauthorized)
	}
	if actor.UserID == id {
		return fmt.Errorf("%w: нельзя отключить собственную учётную запись", apperrors.ErrValidation)
	}

	if err := s.userRepository.SetStatus(ctx, s.database.DB, id, model.UserStatusInactive); err != nil {
		return err
	}

	// живые сессии отключённого пользователя обновить пару токенов уже не смогут
	if err := s.jwtRepoInterface.RevokeAllForUser(ctx, id); err != nil {
		log.Printf("[UserService] не удалось отозвать refresh-токены пользователя %d: %v", id, err)
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, actor model.Actor, page, perPage int) ([]*model.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: список пользователей доступен только администратору", apperrors.ErrUnauthorized)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 25
	}
	return s.userRepository.ListUsers(ctx, s.database.DB, perPage, (page-1)*perPage)
}
