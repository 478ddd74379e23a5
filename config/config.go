package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging        LoggingConfig        `yaml:"logging"`
	GeminiModel    string               `yaml:"gemini_model"`
	Scoring        ScoringConfig        `yaml:"scoring"`
	SentimentQuota SentimentQuotaConfig `yaml:"sentiment_quota"`

	// env 에서만 읽는 값들. config.yaml 에는 절대 넣지 않는다.
	GeminiApiKey       string `yaml:"-"`
	XApiKey            string `yaml:"-"`
	TikTokApiKey       string `yaml:"-"`
	TikTokBackupApiKey string `yaml:"-"`
	YouTubeApiKey      string `yaml:"-"`
	MongoURI           string `yaml:"-"`
	MongoDBName        string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScoringConfig 는 relevance 정렬에 사용하는 가중치를 정의한다.
// 각 가중치는 0 이상이어야 하며, 비워두면 기본값을 사용한다.
type ScoringConfig struct {
	RecencyWeight     float64 `yaml:"recency_weight"`
	EngagementWeight  float64 `yaml:"engagement_weight"`
	CredibilityWeight float64 `yaml:"credibility_weight"`
}

// SentimentQuotaConfig 는 감성 분석용 LLM 호출에 대한 속도/일일 한도를 정의한다.
type SentimentQuotaConfig struct {
	// RequestsPerMinute 는 감성 분석 LLM 호출에 대한 분당 최대 요청 수이다.
	// 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay 는 감성 분석 LLM 호출에 대한 일일 최대 요청 수이다.
	// 0 이하면 제한 없음으로 간주한다.
	RequestsPerDay int `yaml:"requests_per_day"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}

	c.GeminiApiKey = os.Getenv("GEMINI_API_KEY")
	c.XApiKey = os.Getenv("X_API_KEY")
	c.TikTokApiKey = os.Getenv("TIKTOK_API_KEY")
	c.TikTokBackupApiKey = os.Getenv("TIKTOK_BACKUP_API_KEY")
	c.YouTubeApiKey = os.Getenv("YOUTUBE_API_KEY")
	c.MongoURI = os.Getenv("MONGO_URI")
	c.MongoDBName = os.Getenv("MONGO_DB_NAME")

	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
