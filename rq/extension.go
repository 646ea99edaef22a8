package rq

import (
	"github.com/hibiken/asynq"

	"github.com/thefeij/redisq/config"
)

// DefaultConfig is seeded into the host settings by InitApp. These are the
// settings of the default queue. The empty password still counts as set, so
// the default queue never inherits RQ_DEFAULTS_PASSWORD.
var DefaultConfig = map[string]any{
	"RQ_DEFAULT_HOST":     "localhost",
	"RQ_DEFAULT_PORT":     DefaultPort,
	"RQ_DEFAULT_PASSWORD": "",
	"RQ_DEFAULT_DB":       0,
}

// RQ is the host application extension.
type RQ struct {
	settings config.Store
}

// New returns the extension, initialised against app when it is not nil.
func New(app config.Setter) *RQ {
	r := &RQ{}
	if app != nil {
		r.InitApp(app)
	}
	return r
}

// InitApp seeds DefaultConfig into app without overriding keys that are
// already set. Calling it again changes nothing. Nothing is seeded when
// RQ_DEFAULT_URL is set: the URL then describes the whole connection,
// including its database index.
func (r *RQ) InitApp(app config.Setter) {
	r.settings = app
	if app.IsSet(settingKey(DefaultQueue, SettingURL)) {
		return
	}
	for key, value := range DefaultConfig {
		if !app.IsSet(key) {
			app.SetDefault(key, value)
		}
	}
}

func (r *RQ) Settings() config.Store { return r.settings }

func (r *RQ) Queue(name string, opts ...asynq.Option) (*Queue, error) {
	return GetQueue(r.settings, name, opts...)
}

func (r *RQ) Worker(names []string, opts ...WorkerOption) (*Worker, error) {
	return NewWorker(r.settings, names, opts...)
}

func (r *RQ) Connection(name string) (*Connection, error) {
	return NewConnection(r.settings, name)
}

func (r *RQ) ServerURL(name string) (string, error) {
	return ServerURL(r.settings, name)
}
