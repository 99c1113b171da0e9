package models

import "time"

// User — учётная запись портала.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // Пусто, если пароль ещё не задан
	IsActive     bool   // Новые учётные записи активирует администратор
	CreatedAt    time.Time
}

// RegisterRequest — заявка на регистрацию партнёра. Пароль задаёт
// администратор при активации учётной записи.
type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	FirstName      string `json:"first_name" validate:"required,max=50"`
	LastName       string `json:"last_name" validate:"required,max=50"`
	MiddleName     string `json:"middle_name" validate:"omitempty,max=50"`
	Phone          string `json:"phone" validate:"required,max=20"`
	INN            string `json:"inn" validate:"required,numeric,min=10,max=12"`
	CompanyName    string `json:"company_name" validate:"required,max=50"`
	ContractNumber string `json:"contract_number" validate:"omitempty,max=50"`
}

// LoginRequest — учётные данные для входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
