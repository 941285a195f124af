package auth

// DevAuthRequest - необязательное тело запроса dev-авторизации
type DevAuthRequest struct {
	OwnerID string `json:"owner_id" validate:"omitempty,max=64,excludesall=/"`
}

// DevAuthResponse - ответ на dev-авторизацию
type DevAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	OwnerID     string `json:"owner_id"`
}
