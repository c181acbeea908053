package runner

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
)

const envPrefix = "UMENG_PUSH"

type Runner interface {
	StartAsync() (ctx context.Context, err error)
}

type defaultRunner struct {
	fileName       string
	onChangeConfig map[string]func(param string)
}

// StartAsync loads config, sets up logging and returns a context cancelled
// on SIGINT, SIGTERM or SIGQUIT.
func (r defaultRunner) StartAsync() (ctx context.Context, err error) {
	if err = r.initConfig(); err != nil {
		return
	}
	initLog()
	ctx, cancel := context.WithCancel(context.Background())
	go initSignals(cancel)
	return
}

func NewDefaultRunner(configFile string, onChangeConfig map[string]func(param string)) Runner {
	return &defaultRunner{
		fileName:       configFile,
		onChangeConfig: onChangeConfig,
	}
}

func (r *defaultRunner) initConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("runner: cannot load .env %s", err)
	}

	config.AllowEmptyEnv(true)
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	config.SetConfigType("yaml")
	config.SetDefault("max_procs", 1)
	config.SetDefault("log_level", "info")

	if r.fileName != "" {
		config.SetConfigFile(r.fileName)
		if err := config.ReadInConfig(); err != nil {
			return err
		}

		config.WatchConfig()
		config.OnConfigChange(func(e fsnotify.Event) {
			log.Infof("runner: config file changed %s", e.Name)
			initLog()
			for k, v := range r.onChangeConfig {
				v(k)
			}
		})
	}

	runtime.GOMAXPROCS(config.GetInt("max_procs"))

	return nil
}

func initLog() {
	log.SetReportCaller(true)
	log.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	log.SetOutput(os.Stdout)
	switch config.GetString("log_level") {
	case "trace":
		log.SetLevel(log.TraceLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func initSignals(cancel context.CancelFunc) {
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	log.Debug("runner: listening to signals")

	sig := <-osSignal

	log.Debugf("runner: caught signal %v", sig)

	cancel()
}
