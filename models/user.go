package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User representa um usuário do dashboard
type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// Credenciais
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // hash bcrypt, nunca retornado no JSON

	// Dados do usuário
	Name     string `json:"name"`
	Role     string `json:"role" gorm:"default:'user'"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

// TableName define o nome da tabela para o modelo User
func (User) TableName() string {
	return "users"
}

// SetPassword gera e armazena o hash bcrypt da senha
func (u *User) SetPassword(senha string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compara a senha informada com o hash armazenado
func (u *User) CheckPassword(senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(senha)) == nil
}
