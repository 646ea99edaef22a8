// Package rq binds a host application's settings to asynq queues and workers.
//
// Connection parameters for a queue NAME are read from the keys
// RQ_<NAME>_URL, RQ_<NAME>_HOST, RQ_<NAME>_PORT, RQ_<NAME>_PASSWORD and
// RQ_<NAME>_DB. When a queue has neither the setting nor its own URL, the
// shared RQ_DEFAULTS_<SETTING> key is used instead.
//
// Typical use:
//
//	ext := rq.New(settings)
//	sendEmail := rq.Decorate[Payload](settings, "critical")("email:send", handler)
//	info, err := sendEmail.Delay(ctx, Payload{To: "a@example.com"})
//
//	w, err := ext.Worker([]string{"critical", "default"}, rq.WithJobs(sendEmail))
//	err = w.Run()
package rq
