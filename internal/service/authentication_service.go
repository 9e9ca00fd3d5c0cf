package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"rolodrawer/config"
	"rolodrawer/internal/apperrors"
	"rolodrawer/internal/model"
	"rolodrawer/internal/notifier"
	"rolodrawer/internal/ports"
	"rolodrawer/internal/security"
	"rolodrawer/internal/util"
)

type AuthenticationService struct {
	jwtRepoInterface ports.JWTRepositoryInterface
	*config.AppConfig
	jwtServiceInterface ports.JWTServiceInterface
	userRepository      ports.UserRepository
	rateLimiter         ports.RateLimiter
	database            *config.Database
}

func NewAuthenticationService(
	repo ports.JWTRepositoryInterface,
	cfg *config.AppConfig,
	service ports.JWTServiceInterface,
	userInterface ports.UserRepository,
	rateLimiter ports.RateLimiter,
	database *config.Database,
) *AuthenticationService {
	return &AuthenticationService{
		repo,
		cfg,
		service,
		userInterface,
		rateLimiter,
		database,
	}
}

// Login проверяет пару логин-пароль и выдаёт пару токенов.
// Неудачные попытки входа считаются в Redis, после порога учётная
// запись временно блокируется.
func (s *AuthenticationService) Login(ctx context.Context, login, password, userAgent, ipAddress string) (*model.TokensPair, error) {
	locked, err := s.rateLimiter.IsLockedOut(ctx, login)
	if err != nil {
		log.Printf("[AuthService] ошибка проверки блокировки: %v", err)
	}
	if locked {
		return nil, fmt.Errorf("%w: учётная запись временно заблокирована", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepository.FindByLogin(ctx, s.database.DB, login)
	if err != nil {
		s.registerFailedLogin(ctx, login)
		return nil, fmt.Errorf("%w: неверный логин или пароль", apperrors.ErrUnauthorized)
	}
	if user.Status != model.UserStatusActive {
		return nil, fmt.Errorf("%w: учётная запись отключена", apperrors.ErrUnauthorized)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		s.registerFailedLogin(ctx, login)
		return nil, fmt.Errorf("%w: неверный логин или пароль", apperrors.ErrUnauthorized)
	}

	if err := s.rateLimiter.ResetFailedLogins(ctx, login); err != nil {
		log.Printf("[AuthService] ошибка сброса счётчика входов: %v", err)
	}

	tokens, refreshToken, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(user)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress

	if err := s.jwtRepoInterface.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("ошибка сохранения refresh токена: %w", err)
	}

	return tokens, nil
}

func (s *AuthenticationService) registerFailedLogin(ctx context.Context, login string) {
	lockout := time.Duration(s.AppConfig.RateLimit.LockoutSeconds) * time.Second
	locked, err := s.rateLimiter.RegisterFailedLogin(ctx, login, s.AppConfig.RateLimit.FailedLoginThreshold, lockout)
	if err != nil {
		log.Printf("[AuthService] ошибка учёта неудачного входа: %v", err)
		return
	}
	if locked {
		log.Printf("[AuthService] учётная запись %s заблокирована после серии неудачных входов", login)
	}
}

// RefreshToken обновляет пару токенов.
//  1. Операцию refresh можно выполнить только той парой токенов, которая была выдана вместе.
//  2. Обновление с другим User-Agent запрещено, refresh-токен при этом деактивируется.
//  3. При попытке обновления с нового IP отправляется POST-запрос на webhook,
//     операция при этом не запрещается.
func (s *AuthenticationService) RefreshToken(ctx context.Context, userAgent string, ipAddress string, accessToken string, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtServiceInterface.ValidateJWT(accessToken, []byte(s.AppConfig.JWT.SecretKey))
	if err != nil {
		return nil, util.LogError("не удалось провалидировать токен", err)
	}

	refreshTokenUUID := claims.RefreshTokenUUID
	userID := claims.UserID

	storedRefreshToken, err := s.jwtRepoInterface.FindByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return nil, util.LogError("не удалось найти рефреш токен", err)
	}
	if storedRefreshToken.Used {
		log.Printf("refresh token %s уже был использован", refreshTokenUUID)
		return nil, fmt.Errorf("%w: невалидный токен", apperrors.ErrUnauthorized)
	}

	if time.Now().UTC().After(storedRefreshToken.ExpireAt) {
		log.Printf("refresh token %s просрочен", refreshTokenUUID)
		return nil, fmt.Errorf("%w: невалидный токен", apperrors.ErrUnauthorized)
	}

	if storedRefreshToken.UserAgent != userAgent {
		if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
			log.Printf("не удалось пометить токен использованным: %v", err)
		}
		log.Printf("refresh token %s: попытка обновления с другого User-Agent", refreshTokenUUID)
		return nil, fmt.Errorf("%w: невалидный токен", apperrors.ErrUnauthorized)
	}

	if storedRefreshToken.IpAddress != ipAddress {
		log.Printf("обнаружен вход с нового ip адреса, отправка webhook")
		go func() {
			if err := notifier.NotifyWebhook(s.AppConfig.Webhook.URL, userID, ipAddress, storedRefreshToken.IpAddress); err != nil {
				log.Printf("ошибка отправки webhook: %v", err)
			}
		}()
	}

	err = bcrypt.CompareHashAndPassword([]byte(storedRefreshToken.TokenHash), []byte(refreshToken))
	if err != nil {
		return nil, util.LogError("невалидный токен", err)
	}

	if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return nil, util.LogError("не удалось использовать токен", err)
	}

	user, err := s.userRepository.FindByID(ctx, s.database.DB, userID)
	if err != nil {
		return nil, util.LogError("пользователь не найден", err)
	}
	if user.Status != model.UserStatusActive {
		return nil, fmt.Errorf("%w: учётная запись отключена", apperrors.ErrUnauthorized)
	}

	tokensPair, newRefreshToken, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(user)
	if err != nil {
		return nil, util.LogError("ошибка генерации токенов", err)
	}

	newRefreshToken.UserAgent = userAgent
	newRefreshToken.IpAddress = ipAddress
	err = s.jwtRepoInterface.SaveRefreshToken(ctx, newRefreshToken)
	if err != nil {
		return nil, util.LogError("не удалось сохранить рефреш токен", err)
	}

	return tokensPair, nil
}

// Logout деактивирует refresh-токен, делая дальнейшее обновление пары невозможным
func (s *AuthenticationService) Logout(ctx context.Context, refreshTokenUUID string) error {
	err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID)
	if err != nil {
		return fmt.Errorf("не удалось использовать токен: %w", err)
	}
	return nil
}
