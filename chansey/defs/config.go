package defs

import (
	"time"

	"go.uber.org/zap"
)

const DefaultDB = "comfey"

// Intervals.
const (
	FetchInterval   = 1 * time.Hour
	TimeoutInterval = 10 * time.Second
)

type Config struct {
	Oura     OuraConfig    `yaml:"oura"`
	Mongo    MongoConfig   `yaml:"mongo"`
	Patient  PatientConfig `yaml:"patient"`
	HTTPAddr string        `yaml:"httpAddress"`
	Timezone string        `yaml:"timezone"`
	Logger   *zap.Logger   `yaml:"_,omitempty"`
}

type OuraConfig struct {
	Token string `yaml:"token"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type PatientConfig struct {
	Email  string `yaml:"email"`
	Age    int    `yaml:"age"`
	Gender string `yaml:"gender"`
}
