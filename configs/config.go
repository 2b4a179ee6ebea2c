package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("APP_NAME", "Corporate Training")
	Conf.SetDefault("PORT", "8080")
	Conf.SetDefault("ACCESS_TOKEN_TTL", 30*time.Minute)
	Conf.SetDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	Conf.SetDefault("LOG_LEVEL", "info")
	Conf.SetDefault("LOG_FORMAT", "text")
	Conf.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	Conf.SetDefault("DEFAULT_PASSING_SCORE", 18.0)
	Conf.SetDefault("MAX_UPLOAD_BYTES", 100*1024*1024)
	Conf.SetDefault("ALLOWED_EXTENSIONS", "pdf,docx,pptx,txt,mp4,mp3")
	Conf.SetDefault("RAG_MODEL", "deepseek")
	Conf.SetDefault("REMINDER_LEAD", 60*time.Minute)
	Conf.SetDefault("FRONTEND_URL", "http://localhost:5173")

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: failed to load .env: %v", err)
		}
	} else {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}
	Conf.AutomaticEnv()
}

func Config(key string) string {
	return Conf.GetString(key)
}

func Int(key string) int {
	return Conf.GetInt(key)
}

func Float(key string) float64 {
	return Conf.GetFloat64(key)
}

func Bool(key string) bool {
	return Conf.GetBool(key)
}

func Duration(key string) time.Duration {
	return Conf.GetDuration(key)
}

// Strings splits a comma separated value and drops empty items.
func Strings(key string) []string {
	var out []string
	for _, item := range strings.Split(Conf.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
