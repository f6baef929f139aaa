package packets

import "github.com/Nixie-Tech-LLC/namaz/internal/notify"

type UserResponse struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// returned by register and login
type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt string        `json:"expires_at"`
	User      UserResponse  `json:"user"`
	Redirect  string        `json:"redirect"`
	Notice    notify.Notice `json:"notice"`
}

type CurrentSessionResponse struct {
	User UserResponse `json:"user"`
}

type LogoutResponse struct {
	Redirect string        `json:"redirect"`
	Notice   notify.Notice `json:"notice"`
}

// data of an "identity" event; User is nil once signed out
type IdentityEvent struct {
	User *UserResponse `json:"user"`
}

// data of a "navigate" event
type NavigateEvent struct {
	Page     string `json:"page"`
	Redirect string `json:"redirect"`
}

// data of a "notice" event; Visible is false when the notice clears
type NoticeEvent struct {
	Notice  notify.Notice `json:"notice"`
	Visible bool          `json:"visible"`
}
