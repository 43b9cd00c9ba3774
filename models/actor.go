package models

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsMentor() bool  { return a.Role == RoleMentor }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }
