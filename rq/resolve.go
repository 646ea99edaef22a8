package rq

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/thefeij/redisq/config"
)

const DefaultQueue = "default"

const (
	SettingHost     = "HOST"
	SettingPort     = "PORT"
	SettingPassword = "PASSWORD"
	SettingDB       = "DB"
	SettingURL      = "URL"
)

const defaultsNamespace = "DEFAULTS"

// QueueConfig is the resolved connection settings of one queue. Empty
// strings and nil pointers are unset.
type QueueConfig struct {
	Name     string
	URL      string
	Host     string
	Port     *int
	Password string
	DB       *int
}

func normalizeQueueName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultQueue
	}
	return name
}

func settingKey(namespace, setting string) string {
	return "RQ_" + strings.ToUpper(namespace) + "_" + setting
}

// Key returns the key Lookup reads for setting of the named queue.
func Key(store config.Store, name, setting string) string {
	name = normalizeQueueName(name)
	key := settingKey(name, setting)
	if !store.IsSet(key) && !store.IsSet(settingKey(name, SettingURL)) {
		key = settingKey(defaultsNamespace, setting)
	}
	return key
}

// Lookup returns the value of setting for the named queue. The queue's own
// key wins; when neither it nor the queue's URL key is set, the
// RQ_DEFAULTS_<SETTING> key is read instead.
func Lookup(store config.Store, name, setting string) (any, bool) {
	key := Key(store, name, setting)
	if !store.IsSet(key) {
		return nil, false
	}
	value := store.Get(key)
	return value, value != nil
}

// ResolveQueueConfig merges the settings of the named queue into a
// QueueConfig, applying Lookup independently per setting.
func ResolveQueueConfig(store config.Store, name string) (*QueueConfig, error) {
	name = normalizeQueueName(name)
	cfg := &QueueConfig{Name: name}

	var err error
	if cfg.URL, err = lookupString(store, name, SettingURL); err != nil {
		return nil, err
	}
	if cfg.Host, err = lookupString(store, name, SettingHost); err != nil {
		return nil, err
	}
	if cfg.Password, err = lookupString(store, name, SettingPassword); err != nil {
		return nil, err
	}
	if cfg.Port, err = lookupInt(store, name, SettingPort); err != nil {
		return nil, err
	}
	if cfg.DB, err = lookupInt(store, name, SettingDB); err != nil {
		return nil, err
	}

	return cfg, nil
}

func lookupString(store config.Store, name, setting string) (string, error) {
	value, ok := Lookup(store, name, setting)
	if !ok {
		return "", nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", &ConfigurationError{Queue: name, Key: Key(store, name, setting), Err: fmt.Errorf("%w: %v", ErrInvalidSetting, err)}
	}
	if setting == SettingPassword {
		return s, nil
	}
	return strings.TrimSpace(s), nil
}

func lookupInt(store config.Store, name, setting string) (*int, error) {
	value, ok := Lookup(store, name, setting)
	if !ok {
		return nil, nil
	}
	if s, isString := value.(string); isString {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		value = strings.TrimSpace(s)
	}
	n, err := cast.ToIntE(value)
	if err != nil || n < 0 {
		return nil, &ConfigurationError{Queue: name, Key: Key(store, name, setting), Err: fmt.Errorf("%w: %v is not a non-negative integer", ErrInvalidSetting, value)}
	}
	return &n, nil
}
