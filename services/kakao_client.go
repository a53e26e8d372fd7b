package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// KakaoUserInfo is the subset of the Kakao profile the server keeps.
type KakaoUserInfo struct {
	ID           int64
	Nickname     string
	Email        string
	ProfileImage string
}

// KakaoUserFetcher lets tests stub out the identity provider.
type KakaoUserFetcher interface {
	FetchUserInfo(accessToken string) (*KakaoUserInfo, error)
}

// KakaoClient exchanges a Kakao access token for profile fields. The
// provider is treated as opaque: any non-2xx or malformed body is a
// plain error for the caller to translate.
type KakaoClient struct {
	UserInfoURL string
	Client      *http.Client
}

func NewKakaoClient(userInfoURL string) *KakaoClient {
	return &KakaoClient{
		UserInfoURL: userInfoURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *KakaoClient) FetchUserInfo(accessToken string) (*KakaoUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao user info returned %d", resp.StatusCode)
	}

	var raw struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed kakao response: %w", err)
	}
	if raw.ID == 0 {
		return nil, fmt.Errorf("kakao response missing user id")
	}

	return &KakaoUserInfo{
		ID:           raw.ID,
		Nickname:     raw.KakaoAccount.Profile.Nickname,
		Email:        raw.KakaoAccount.Email,
		ProfileImage: raw.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}
