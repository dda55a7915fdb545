package entity

import "time"

// Roles de usuario. El rol decide qué operaciones del API puede invocar
// (importar, restaurar y borrar requieren admin).
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
	RoleConsulta = "consulta"
)

// User es la identidad que firma las modificaciones (campo modifier de las
// entidades del catálogo y del ledger).
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	Role         string
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
