package domain

import "fmt"

// UserIdentity is one of the two fixed household members. There is no user
// registration; every per-user entity is keyed by one of these values.
type UserIdentity string

const (
	UserJiji UserIdentity = "jiji"
	UserBaba UserIdentity = "baba"
)

// Users returns both identities in display order.
func Users() [2]UserIdentity {
	return [2]UserIdentity{UserJiji, UserBaba}
}

// ParseUser maps a wire value onto a known identity.
func ParseUser(s string) (UserIdentity, error) {
	switch UserIdentity(s) {
	case UserJiji:
		return UserJiji, nil
	case UserBaba:
		return UserBaba, nil
	}
	return "", fmt.Errorf("%w: unknown user %q", ErrValidation, s)
}

// Valid reports whether u is one of the two known identities.
func (u UserIdentity) Valid() bool {
	return u == UserJiji || u == UserBaba
}

// DisplayName returns the label shown in the UI.
func (u UserIdentity) DisplayName() string {
	switch u {
	case UserJiji:
		return "じじ"
	case UserBaba:
		return "ばば"
	}
	return string(u)
}
