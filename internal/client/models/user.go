package models

// UserProfile is the identity record returned by the users endpoints and
// cached by the token store for synchronous reads.
type UserProfile struct {
	ID           ID     `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	MiddleName   string `json:"middle_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Birthdate    string `json:"birthdate,omitempty"`
	IsSubscribed bool   `json:"is_subscribed,omitempty"`
	Tier         string `json:"tier,omitempty"`
}

// Clone returns a copy that callers may modify freely.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Credential is everything the token store persists for a session.
type Credential struct {
	AccessToken  string
	RefreshToken string
	User         *UserProfile
}
