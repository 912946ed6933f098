package domain

import "fmt"

// Principal is the authenticated caller resolved to an internal user.
type Principal struct {
	User           User
	ProfessionalID *int64
}

// ProfessionalCap proves the caller acts as a professional with a profile.
type ProfessionalCap struct {
	UserID         int64
	ProfessionalID int64
}

// AdminCap proves the caller is an administrator.
type AdminCap struct {
	UserID int64
}

// Party is the caller's relation to a specific service request.
type Party uint8

const (
	PartyNone Party = iota
	PartyClient
	PartyProfessional
	PartyAdmin
)

func (p Party) String() string {
	switch p {
	case PartyClient:
		return "client"
	case PartyProfessional:
		return "professional"
	case PartyAdmin:
		return "admin"
	default:
		return "none"
	}
}

func (p Principal) UserID() int64 { return p.User.ID }

func (p Principal) Role() Role { return p.User.UserType }

func (p Principal) Professional() (ProfessionalCap, error) {
	switch p.User.UserType {
	case RoleProfessional:
		if p.ProfessionalID == nil {
			return ProfessionalCap{}, fmt.Errorf("%w: professional profile not found", ErrForbidden)
		}
		return ProfessionalCap{UserID: p.User.ID, ProfessionalID: *p.ProfessionalID}, nil
	case RoleClient, RoleAdmin:
		return ProfessionalCap{}, fmt.Errorf("%w: only professionals can perform this action", ErrForbidden)
	default:
		return ProfessionalCap{}, fmt.Errorf("%w: unknown role", ErrForbidden)
	}
}

func (p Principal) Admin() (AdminCap, error) {
	switch p.User.UserType {
	case RoleAdmin:
		return AdminCap{UserID: p.User.ID}, nil
	case RoleClient, RoleProfessional:
		return AdminCap{}, fmt.Errorf("%w: admin access required", ErrForbidden)
	default:
		return AdminCap{}, fmt.Errorf("%w: unknown role", ErrForbidden)
	}
}

// PartyTo reports how the caller relates to s. Ownership wins over role so
// that a professional who also requested services keeps client rights on them.
func (p Principal) PartyTo(s *Service) Party {
	if s == nil {
		return PartyNone
	}
	if s.ClientID == p.User.ID {
		return PartyClient
	}
	switch p.User.UserType {
	case RoleAdmin:
		return PartyAdmin
	case RoleProfessional:
		if p.ProfessionalID != nil && s.ProfessionalID != nil && *s.ProfessionalID == *p.ProfessionalID {
			return PartyProfessional
		}
		return PartyNone
	case RoleClient:
		return PartyNone
	default:
		return PartyNone
	}
}
