package session

import "fmt"

// AuthMode selects which form the auth modal shows.
type AuthMode uint8

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

func (m AuthMode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeRegister:
		return "register"
	default:
		return fmt.Sprintf("AuthMode(%d)", uint8(m))
	}
}

// Toggle returns the other mode.
func (m AuthMode) Toggle() AuthMode {
	if m == ModeLogin {
		return ModeRegister
	}
	return ModeLogin
}

// ParseAuthMode parses "login" or "register".
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "login":
		return ModeLogin, nil
	case "register":
		return ModeRegister, nil
	default:
		return ModeLogin, fmt.Errorf("unknown auth mode %q", s)
	}
}
