package validator

import "regexp"

var (
	loginRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func IsValidLogin(login string) bool {
	return loginRe.MatchString(login)
}

func IsValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 128
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
