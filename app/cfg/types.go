package cfg

import "time"

type Cfg struct {
	// Content configuration
	ContentDir    string
	DefaultLocale string
	PageSize      int

	// Saved view storage
	ViewStore      string
	DBPath         string
	RedisAddr      string
	RedisNamespace string

	// HTTP configuration
	Port    string
	BaseUrl string

	// Application metadata
	Timezone string
	Location *time.Location
	Debug    bool
	Version  string
}
