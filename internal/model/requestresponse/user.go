package requestresponse

import "rolodrawer/internal/model"

// RegisterUserRequest : создание учётной записи администратором
type RegisterUserRequest struct {
	Login    string `json:"login" example:"i.petrov"`
	Name     string `json:"name" example:"Иван Петров"`
	Password string `json:"password" example:"P@ssw0rd123"`
	Role     string `json:"role" example:"user"`
}

// UpdateUserRequest : обновление учётной записи
type UpdateUserRequest struct {
	Name string `json:"name" example:"Иван Петров"`
	Role string `json:"role" example:"user"`
}

// UpdatePasswordRequest : смена пароля
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" example:"N3wP@ssw0rd"`
}

// UserResponse : учётная запись
type UserResponse struct {
	Response model.User `json:"response"`
}

// UserListResponse : страница списка пользователей
type UserListResponse struct {
	Response []*model.User `json:"response"`
}
