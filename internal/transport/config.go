package transport

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"

	"umeng-push/internal/push"
	"umeng-push/internal/task"
)

type AppOpts struct {
	AppKey          string
	AppMasterSecret string
	ProductionMode  bool
}

func (opts *AppOpts) Valid() bool {
	return opts.AppKey != "" && opts.AppMasterSecret != ""
}

type AppConfig interface {
	GetConfig(project string, platform task.Platform) (*AppOpts, error)
}

var credentials = cache.New(10*time.Minute, 20*time.Minute)

// FlushConfig drops cached credentials, used when the config file changes.
func FlushConfig(string) {
	credentials.Flush()
}

type defaultAppConfig struct {
}

func newDefaultAppConfig() AppConfig {
	return &defaultAppConfig{}
}

// GetConfig reads <project>.<platform>.appkey and .master_secret,
// and <project>.production_mode.
func (c *defaultAppConfig) GetConfig(project string, platform task.Platform) (*AppOpts, error) {
	key := project + "." + string(platform)
	if cached, ok := credentials.Get(key); ok {
		return cached.(*AppOpts), nil
	}

	opts := &AppOpts{
		AppKey:          config.GetString(key + ".appkey"),
		AppMasterSecret: config.GetString(key + ".master_secret"),
		ProductionMode:  config.GetBool(project + ".production_mode"),
	}

	if !opts.Valid() {
		log.Errorf("transport: no credentials for %s", key)
		return nil, fmt.Errorf("%w: no credentials for %s", push.ErrorInvalidKey, key)
	}

	credentials.SetDefault(key, opts)

	return opts, nil
}
