package main

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/thefeij/redisq/api"
	"github.com/thefeij/redisq/config"
	"github.com/thefeij/redisq/email"
	"github.com/thefeij/redisq/rq"
	"github.com/thefeij/redisq/worker"
	"os"
)

func main() {
	configs, err := config.LoadConfig("./config", "config.json")
	if err != nil {
		panic(fmt.Sprintf("could not load configs: %v", err.Error()))
	}

	if configs.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ext := rq.New(configs.Settings())

	emailSender := email.NewEmailSender(
		configs.EmailSenderName,
		configs.EmailSenderAddress,
		configs.EmailSenderPassword,
		configs.SMTPAuthAddress,
		configs.SMTPServerAddress,
	)
	jobs := worker.NewJobs(ext.Settings(), emailSender)

	for _, queue := range []string{worker.CriticalQueue, worker.DefaultQueue} {
		serverURL, err := ext.ServerURL(queue)
		if err != nil {
			log.Fatal().Err(err).Str("queue", queue).Msg("invalid queue configuration")
		}
		log.Info().Str("queue", queue).Str("server", serverURL).Msg("queue configured")
	}

	taskProcessor, err := worker.NewRedisTaskProcessor(ext, jobs)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create task processor")
	}
	defer taskProcessor.Shutdown()

	log.Info().Msg("starting task processor...")
	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("could not start task processor")
	}

	server := api.NewServer(ext, jobs)

	log.Info().Msg(fmt.Sprintf("starting server on %v", configs.HTTPServer))
	err = server.Start(configs.HTTPServer)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start server")
	}
}
