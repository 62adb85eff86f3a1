package account

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"letmein1":    {},
	"sunshine":    {},
	"football":    {},
	"baseball":    {},
	"welcome1":    {},
	"abc12345":    {},
	"11111111":    {},
	"00000000":    {},
	"trustno1":    {},
	"princess":    {},
	"superman":    {},
}

// passwordProblems applies the registration strength policy and returns one
// message per failed rule.
func passwordProblems(password, username, email string) []string {
	var problems []string
	lower := strings.ToLower(password)

	if tooSimilar(lower, strings.ToLower(username)) {
		problems = append(problems, "The password is too similar to the username.")
	} else if local, _, ok := strings.Cut(strings.ToLower(email), "@"); ok && tooSimilar(lower, local) {
		problems = append(problems, "The password is too similar to the email address.")
	}

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}

	if _, ok := commonPasswords[lower]; ok {
		problems = append(problems, "This password is too common.")
	}

	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

func tooSimilar(password, attr string) bool {
	if len(attr) < 3 || password == "" {
		return false
	}
	return strings.Contains(password, attr) || strings.Contains(attr, password)
}
