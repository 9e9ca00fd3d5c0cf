package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Login        string    `db:"login" json:"login"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Actor : субъект операции, получается из JWT и передаётся явным
// параметром в каждый вызов сервисов. Глобального "текущего пользователя"
// в приложении нет.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanWrite : право изменять данные (роль viewer только читает)
func (a Actor) CanWrite() bool {
	return a.Role == RoleAdmin || a.Role == RoleUser
}
