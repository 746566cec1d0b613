package domain

// User is what the identity provider exposes about a signed-in person.
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

type SignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type SessionResponse struct {
	LoggedIn bool       `json:"logged_in"`
	User     *User      `json:"user,omitempty"`
	Status   SyncStatus `json:"sync_status"`
}
