package main

import "time"

type Config struct {
	ConnectionBufferSize      int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	ModerationCharReplacement rune          `env:"MODERATION_CHARACTER_REPLACEMENT,required=true"`
	LimitMessages             *int          `env:"LIMIT_MESSAGES"`
	SinkTimeout               time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval           time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval            time.Duration `env:"METRIC_INTERVAL,default=30s"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath             string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel                  string        `env:"LOG_LEVEL,required=true"`
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
	OpenAIBaseURL             string        `env:"OPENAI_BASE_URL,required=true"`
	OpenAIAPIKey              string        `env:"OPENAI_API_KEY,required=true"`
	GenerationModel           string        `env:"GENERATION_MODEL,required=true"`
	GenerationTimeout         time.Duration `env:"GENERATION_TIMEOUT,default=30s"`
	ClassificationTimeout     time.Duration `env:"CLASSIFICATION_TIMEOUT,default=10s"`
	MysteryResponses          int           `env:"MYSTERY_RESPONSES,default=3"`
	TimelineCapacity          int           `env:"TIMELINE_CAPACITY,default=200"`
	DrainTimeout              time.Duration `env:"DRAIN_TIMEOUT,default=30s"`
}
