package services

import (
	"regexp"
	"strings"
	"time"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 8

	birthdateLayout = "2006-01-02"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// RegistrationPolicy selects which optional profile fields a registration
// must carry. Username, email and password are always required.
type RegistrationPolicy struct {
	RequireNames     bool
	RequirePhone     bool
	RequireBirthdate bool
}

// RegisterInput is the registration form. ConfirmPassword is checked only
// when non-empty and is never sent to the server.
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	FirstName       string `json:"first_name,omitempty"`
	MiddleName      string `json:"middle_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Birthdate       string `json:"birthdate,omitempty"`
}

// ProfileUpdate is a partial profile edit; nil fields are left unchanged.
type ProfileUpdate struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Birthdate  *string `json:"birthdate,omitempty"`
}

type problems []FieldProblem

func (p *problems) add(field, msg string) {
	*p = append(*p, FieldProblem{Field: field, Message: msg})
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}

// Validate checks in against the policy without any I/O. The returned
// error is a *ValidationError or nil.
func (pol RegistrationPolicy) Validate(in RegisterInput, now time.Time) error {
	var ps problems

	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		ps.add("username", "Username is required.")
	case len([]rune(username)) < MinUsernameLength:
		ps.add("username", "Username must be at least 3 characters.")
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		ps.add("email", "Email is required.")
	case !emailPattern.MatchString(email):
		ps.add("email", "Enter a valid email address.")
	}

	switch {
	case in.Password == "":
		ps.add("password", "Password is required.")
	case len([]rune(in.Password)) < MinPasswordLength:
		ps.add("password", "Password must be at least 8 characters.")
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		ps.add("confirm_password", "Passwords do not match.")
	}

	if pol.RequireNames {
		if strings.TrimSpace(in.FirstName) == "" {
			ps.add("first_name", "First name is required.")
		}
		if strings.TrimSpace(in.LastName) == "" {
			ps.add("last_name", "Last name is required.")
		}
	}

	checkPhone(&ps, in.Phone, pol.RequirePhone)
	checkBirthdate(&ps, in.Birthdate, pol.RequireBirthdate, now)

	return ps.err()
}

// ValidateProfileUpdate checks the fields present in u.
func ValidateProfileUpdate(u ProfileUpdate, now time.Time) error {
	var ps problems
	if u.Email != nil && !emailPattern.MatchString(strings.TrimSpace(*u.Email)) {
		ps.add("email", "Enter a valid email address.")
	}
	if u.Phone != nil {
		checkPhone(&ps, *u.Phone, false)
	}
	if u.Birthdate != nil {
		checkBirthdate(&ps, *u.Birthdate, false, now)
	}
	return ps.err()
}

func checkPhone(ps *problems, phone string, required bool) {
	phone = strings.TrimSpace(phone)
	switch {
	case phone == "":
		if required {
			ps.add("phone", "Phone number is required.")
		}
	case !phonePattern.MatchString(phone):
		ps.add("phone", "Enter a valid phone number.")
	}
}

func checkBirthdate(ps *problems, birthdate string, required bool, now time.Time) {
	birthdate = strings.TrimSpace(birthdate)
	if birthdate == "" {
		if required {
			ps.add("birthdate", "Birthdate is required.")
		}
		return
	}
	d, err := time.Parse(birthdateLayout, birthdate)
	if err != nil {
		ps.add("birthdate", "Birthdate must be in YYYY-MM-DD format.")
		return
	}
	if d.After(now) {
		ps.add("birthdate", "Birthdate cannot be in the future.")
	}
}
