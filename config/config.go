package config

import (
	"errors"
	"flag"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	Addr           string
	DBUrl          string
	APIUrl         string
	AuthUrl        string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	Debug          bool
}

func ParseFlags() (Config, error) {
	return Parse(os.Args[1:])
}

// Parse reads the command line. Values from the -config file apply to every
// flag not given explicitly.
func Parse(args []string) (cfg Config, err error) {
	fs := flag.NewFlagSet("quick-quiz", flag.ContinueOnError)

	var host string
	fs.StringVar(&host, "host", "0.0.0.0", "listen host name")
	var port uint
	fs.UintVar(&port, "port", 80, "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", "qquiz.sqlite", "path to SQLite3 DB file")
	fs.StringVar(&cfg.APIUrl, "api-url", "", "base URL of the Quiz API")
	fs.StringVar(&cfg.AuthUrl, "auth-url", "", "base URL of the Auth Service (default: -api-url)")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", 10*time.Second, "timeout of a single remote call")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 12*time.Hour, "upper bound on login session lifetime")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	var configPath string
	fs.StringVar(&configPath, "config", "", "optional YAML config file")

	if err = fs.Parse(args); err != nil {
		return
	}

	if configPath != "" {
		var file fileConfig
		file, err = loadFile(configPath)
		if err != nil {
			return
		}
		explicit := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		for name, value := range file.values() {
			if explicit[name] {
				continue
			}
			if err = fs.Set(name, value); err != nil {
				return
			}
		}
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	if cfg.AuthUrl == "" {
		cfg.AuthUrl = cfg.APIUrl
	}
	err = cfg.Validate()
	return
}

func (cfg Config) Validate() error {
	if cfg.APIUrl == "" {
		return errors.New("missing parameter -api-url")
	}
	for name, raw := range map[string]string{"-api-url": cfg.APIUrl, "-auth-url": cfg.AuthUrl} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("invalid parameter " + name + ": " + raw)
		}
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("parameter -request-timeout must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("parameter -session-ttl must be positive")
	}
	return nil
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
