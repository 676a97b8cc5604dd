package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	GenAI        GenAIConfig
	Fetcher      FetcherConfig
	Quiz         QuizConfig
	Logger       LoggerConfig
	ContextStore ContextStoreConfig
	JWTSecret    string
	DisplayZone  string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GenAIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
}

type FetcherConfig struct {
	NewsBaseURL      string
	TopStoriesURL    string
	HTTPTimeout      time.Duration
	SettleDelay      time.Duration
	MinContentLength int
	MaxArticles      int
}

type QuizConfig struct {
	DefaultDurationMinutes int
	MinQuestions           int
	MaxQuestions           int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type ContextStoreConfig struct {
	Dir string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "quizforge")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("genai.model", "gemini-2.0-flash")
	viper.SetDefault("genai.embedding_model", "embedding-001")
	viper.SetDefault("fetcher.news_base_url", "https://news.google.com")
	viper.SetDefault("fetcher.top_stories_url", "https://news.google.com/topstories?hl=en-IN&gl=IN&ceid=IN:en")
	viper.SetDefault("fetcher.http_timeout", 15)
	viper.SetDefault("fetcher.settle_delay", 10)
	viper.SetDefault("fetcher.min_content_length", 150)
	viper.SetDefault("fetcher.max_articles", 3)
	viper.SetDefault("quiz.default_duration_minutes", 30)
	viper.SetDefault("quiz.min_questions", 1)
	viper.SetDefault("quiz.max_questions", 20)
	viper.SetDefault("context_store.dir", "context_index")
	viper.SetDefault("display_zone", "Asia/Kolkata")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional: defaults plus env vars are enough to run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("mongo.uri"),
			Database: viper.GetString("mongo.database"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		GenAI: GenAIConfig{
			APIKey:         viper.GetString("genai.api_key"),
			Model:          viper.GetString("genai.model"),
			EmbeddingModel: viper.GetString("genai.embedding_model"),
		},
		Fetcher: FetcherConfig{
			NewsBaseURL:      viper.GetString("fetcher.news_base_url"),
			TopStoriesURL:    viper.GetString("fetcher.top_stories_url"),
			HTTPTimeout:      viper.GetDuration("fetcher.http_timeout") * time.Second,
			SettleDelay:      viper.GetDuration("fetcher.settle_delay") * time.Second,
			MinContentLength: viper.GetInt("fetcher.min_content_length"),
			MaxArticles:      viper.GetInt("fetcher.max_articles"),
		},
		Quiz: QuizConfig{
			DefaultDurationMinutes: viper.GetInt("quiz.default_duration_minutes"),
			MinQuestions:           viper.GetInt("quiz.min_questions"),
			MaxQuestions:           viper.GetInt("quiz.max_questions"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		ContextStore: ContextStoreConfig{
			Dir: viper.GetString("context_store.dir"),
		},
		JWTSecret:   viper.GetString("jwt.secret"),
		DisplayZone: viper.GetString("display_zone"),
	}

	// Override with environment variables if set
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.Mongo.URI = uri
	}
	if db := os.Getenv("MONGO_DATABASE"); db != "" {
		config.Mongo.Database = db
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if apiKey := os.Getenv("GENAI_API_KEY"); apiKey != "" {
		config.GenAI.APIKey = apiKey
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWTSecret = secret
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}

	return config, nil
}
