package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the command line flags. Keys are the flag names.
type fileConfig struct {
	Host           *string `yaml:"host"`
	Port           *uint   `yaml:"port"`
	DBUrl          *string `yaml:"db-url"`
	APIUrl         *string `yaml:"api-url"`
	AuthUrl        *string `yaml:"auth-url"`
	RequestTimeout *string `yaml:"request-timeout"`
	SessionTTL     *string `yaml:"session-ttl"`
	Debug          *bool   `yaml:"debug"`
}

// loadFile reads a YAML config file. Unknown keys are rejected.
func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (fileConfig, error) {
	var cfg fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return fileConfig{}, errors.New("parse config: multiple YAML documents are not supported")
		}
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// values returns the flag values set in the file.
func (f fileConfig) values() map[string]string {
	values := map[string]string{}
	set := func(name string, v *string) {
		if v != nil {
			values[name] = *v
		}
	}
	set("host", f.Host)
	set("db-url", f.DBUrl)
	set("api-url", f.APIUrl)
	set("auth-url", f.AuthUrl)
	set("request-timeout", f.RequestTimeout)
	set("session-ttl", f.SessionTTL)
	if f.Port != nil {
		values["port"] = strconv.FormatUint(uint64(*f.Port), 10)
	}
	if f.Debug != nil {
		values["debug"] = strconv.FormatBool(*f.Debug)
	}
	return values
}
