package utils

import (
	"log"
	"os"
)

// Config is read from the environment once at process start and handed
// to the components that need it (token issuer, object storage client).
type Config struct {
	Port           string
	DatabaseURL    string
	AllowedOrigins string

	JWTSecret string

	NCPAccessKey  string
	NCPSecretKey  string
	NCPRegion     string
	NCPEndpoint   string
	NCPBucketName string

	KakaoUserInfoURL string
	ClovaAPIKey      string
	ClovaAPIURL      string
}

func LoadConfig() Config {
	cfg := Config{
		Port:           getenv("PORT", "5000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:3000"),

		JWTSecret: os.Getenv("JWT_SECRET_KEY"),

		NCPAccessKey:  os.Getenv("NCP_ACCESS_KEY"),
		NCPSecretKey:  os.Getenv("NCP_SECRET_KEY"),
		NCPRegion:     getenv("NCP_REGION", "kr-standard"),
		NCPEndpoint:   getenv("NCP_ENDPOINT", "https://kr.object.ncloudstorage.com"),
		NCPBucketName: os.Getenv("NCP_BUCKET_NAME"),

		KakaoUserInfoURL: getenv("KAKAO_USER_INFO_URL", "https://kapi.kakao.com/v2/user/me"),
		ClovaAPIKey:      os.Getenv("CLOVA_API_KEY"),
		ClovaAPIURL:      getenv("CLOVA_API_URL", "https://clovastudio.stream.ntruss.com/testapp/v1/chat-completions/HCX-003"),
	}

	if cfg.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET_KEY not set, using insecure development default")
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
