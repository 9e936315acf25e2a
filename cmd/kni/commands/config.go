package commands

import (
	"os"
	"time"

	"kamar-notices/lib/chrono"
	"kamar-notices/lib/configutil"
	"kamar-notices/lib/platforms/kamar"
)

const configName = "kni.json5"

type Config struct {
	// the portal's domain (portal.school.nz) or full url
	Host    string `json:"host"`
	UseHttp bool   `json:"use_http"`
	// IANA zone used to determine "today", defaults to the system zone
	Timezone       string `json:"timezone"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Debug          bool   `json:"debug"`
}

// readConfig finds kni.json5 (and kni.local.json5) by walking up from `dir`,
// a missing file is not an error.
func readConfig(dir string) (Config, string, error) {
	cfg, path, err := configutil.ReadRecursivelyFrom[Config](dir, configName)
	if os.IsNotExist(err) {
		return Config{}, "", nil
	}
	return cfg, path, err
}

func (c Config) clientOptions() (kamar.ClientOptions, error) {
	clock, err := chrono.LoadStandardTime(c.Timezone)
	if err != nil {
		return kamar.ClientOptions{}, err
	}
	return kamar.ClientOptions{
		UseHttp: c.UseHttp,
		Debug:   c.Debug,
		Clock:   clock,
		Timeout: time.Duration(c.TimeoutSeconds) * time.Second,
	}, nil
}
