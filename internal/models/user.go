package models

import "time"

type Role string // Роль пользователя

const (
	CompanyRole   Role = "company"
	SupplierRole  Role = "supplier"
	ConsumerRole  Role = "consumer"
	AnonymousRole Role = "anonymous"
)

// User - запись справочника пользователей.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Actor - пользователь, от имени которого выполняется операция.
type Actor struct {
	ID   string
	Role Role
}

// Anonymous возвращает неаутентифицированного пользователя.
func Anonymous() Actor {
	return Actor{Role: AnonymousRole}
}
