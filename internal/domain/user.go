package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the user_type column parsed into a closed set.
type Role uint8

const (
	RoleClient Role = iota + 1
	RoleProfessional
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleProfessional:
		return "professional"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "professional":
		return RoleProfessional, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown user type %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID          int64      `json:"id"`
	FirebaseUID string     `json:"firebase_uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	UserType    Role       `json:"user_type"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
