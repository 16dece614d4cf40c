package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/models"
	"github.com/dmitrijs2005/bookflix/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register walks the user through the registration form. Optional fields
// are asked for only when the registration policy requires them or the
// user chooses to fill them in.
func (a *App) Register(ctx context.Context) error {
	var in services.RegisterInput
	var err error

	if in.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if in.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}
	if in.ConfirmPassword, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}

	optional := func(label string, required bool) (string, error) {
		if !required {
			label += " (optional)"
		}
		return getSimpleText(a.reader, label, a.out)
	}
	if in.FirstName, err = optional("First name", a.config.RequireNames); err != nil {
		return err
	}
	if in.MiddleName, err = optional("Middle name", false); err != nil {
		return err
	}
	if in.LastName, err = optional("Last name", a.config.RequireNames); err != nil {
		return err
	}
	if in.Phone, err = optional("Phone", a.config.RequirePhone); err != nil {
		return err
	}
	if in.Birthdate, err = optional("Birthdate (YYYY-MM-DD)", a.config.RequireBirthdate); err != nil {
		return err
	}

	user, err := a.authService.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Username)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	user, err := a.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", user.Username)
	return nil
}

// Logout ends the session locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the cached user without contacting the server.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.authService.Current()
	if u == nil || !a.authService.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
	return nil
}

// Profile fetches the profile from the server; with edit it first asks for
// new values, where an empty answer keeps the current one.
func (a *App) Profile(ctx context.Context, edit bool) error {
	user, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}

	if edit {
		var upd services.ProfileUpdate
		fields := []struct {
			label   string
			current string
			dst     **string
		}{
			{"Email", user.Email, &upd.Email},
			{"First name", user.FirstName, &upd.FirstName},
			{"Middle name", user.MiddleName, &upd.MiddleName},
			{"Last name", user.LastName, &upd.LastName},
			{"Phone", user.Phone, &upd.Phone},
			{"Birthdate (YYYY-MM-DD)", user.Birthdate, &upd.Birthdate},
		}
		for _, f := range fields {
			v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, f.current), a.out)
			if err != nil {
				return err
			}
			if v != "" && v != f.current {
				value := v
				*f.dst = &value
			}
		}

		if user, err = a.authService.UpdateProfile(ctx, upd); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile updated.")
	}

	printProfile(a, user)
	return nil
}

func printProfile(a *App, u *models.UserProfile) {
	name := strings.Join(strings.Fields(strings.Join([]string{u.FirstName, u.MiddleName, u.LastName}, " ")), " ")
	fmt.Fprintf(a.out, "Username:  %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:     %s\n", u.Email)
	if name != "" {
		fmt.Fprintf(a.out, "Name:      %s\n", name)
	}
	if u.Phone != "" {
		fmt.Fprintf(a.out, "Phone:     %s\n", u.Phone)
	}
	if u.Birthdate != "" {
		fmt.Fprintf(a.out, "Birthdate: %s\n", u.Birthdate)
	}
	if u.Tier != "" {
		plan := u.Tier
		if t := models.ParseTier(u.Tier); t != models.TierUnknown {
			plan = t.DisplayName()
		}
		fmt.Fprintf(a.out, "Plan:      %s\n", plan)
	}
}
