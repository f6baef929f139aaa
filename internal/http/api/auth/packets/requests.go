package packets

// body for registering; emptiness and length are checked by the provider so
// the user sees its messages
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
