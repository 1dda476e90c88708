package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Host         string `env:"METEO_HOST,default=0.0.0.0"`
	Port         int    `env:"METEO_PORT,default=56700"`
	Listeners    int    `env:"METEO_LISTENERS,default=0"`
	Reuseport    bool   `env:"METEO_REUSEPORT,default=true"`
	ResolveHosts bool   `env:"METEO_RESOLVE_HOSTS,default=true"`
	Seed         int64  `env:"METEO_SEED,default=0"`

	LogLevel string `env:"METEO_LOG_LEVEL,default=info"`

	// An empty HTTPPort disables the debug HTTP server
	HTTPPort  string `env:"METEO_HTTP_PORT"`
	DebugHTTP bool   `env:"METEO_DEBUG_HTTP"`

	// An empty MQTTBroker disables live station readings
	MQTTBroker   string        `env:"METEO_MQTT_BROKER"`
	MQTTPort     int           `env:"METEO_MQTT_PORT,default=1883"`
	MQTTClientID string        `env:"METEO_MQTT_CLIENT_ID,default=meteo-server"`
	MQTTTopic    string        `env:"METEO_MQTT_TOPIC,default=stations/+/telemetry"`
	MQTTMaxAge   time.Duration `env:"METEO_MQTT_MAX_AGE,default=15m"`

	Server  string        `env:"METEO_SERVER,default=localhost"`
	Timeout time.Duration `env:"METEO_TIMEOUT,default=5s"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := envconfig.ProcessWith(ctx, &config, lookuper); err != nil {
		return nil, err
	}

	return &config, nil
}
