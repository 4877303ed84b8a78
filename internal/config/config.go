package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Sheets   Sheets
	Draft    Draft
	Telegram Telegram
	AppTitle string `envconfig:"APP_TITLE" default:"PlayoffPurge 2025"`
	Port     string `envconfig:"PORT" default:"8080"`
}

type Sheets struct {
	SheetID string `envconfig:"GOOGLE_SHEET_ID" required:"true"`
	// Either a path to a service-account key file or the key JSON itself
	// (the latter is how hosted deployments inject it).
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	CredentialsJSON string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`

	CacheTTLSeconds      int `envconfig:"CACHE_TTL_SECONDS" default:"600"`
	MinRequestIntervalMS int `envconfig:"MIN_REQUEST_INTERVAL_MS" default:"500"`
	MaxRetries           int `envconfig:"SHEETS_MAX_RETRIES" default:"3"`
}

type Draft struct {
	TotalRounds int `envconfig:"TOTAL_ROUNDS" default:"6"`
	// When set, the total round count is inferred from the Draft_Order tab
	// instead of TOTAL_ROUNDS.
	DeriveTotalRounds bool   `envconfig:"DERIVE_TOTAL_ROUNDS" default:"false"`
	RefreshSchedule   string `envconfig:"REFRESH_SCHEDULE" default:"*/10 * * * *"`
}

type Telegram struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
