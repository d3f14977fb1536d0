package middleware

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
)

// refreshAccessToken échange un refresh token contre un nouvel access token
// auprès de l'auth Supabase.
func refreshAccessToken(refreshToken string) (string, error) {
	supabaseURL := os.Getenv("NEXT_PUBLIC_SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")

	var result struct {
		AccessToken string `json:"access_token"`
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("apikey", supabaseAnonKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&result).
		Post(supabaseURL + "/auth/v1/token?grant_type=refresh_token")

	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("refresh refusé : %s", resp.Status())
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("access token absent de la réponse")
	}

	return result.AccessToken, nil
}
