package auth

type RegisterRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
