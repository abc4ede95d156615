package cmd

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/ats-match/pkg/worker"
)

//nolint:gochecknoglobals // Cobra boilerplate
var workerConcurrency int

//nolint:gochecknoglobals // Cobra boilerplate
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis jobs from RabbitMQ",
	Long: `Consumes analysis jobs from a durable RabbitMQ queue and publishes each
outcome to a topic exchange under the routing key analysis.<job id>.

A job is a JSON message:

  {"id": "...", "job_description": "...", "cv_text": "..."}

or, for CVs kept in S3 compatible storage:

  {"id": "...", "job_description": "...", "cv_object_key": "uploads/cv.pdf", "cv_file_name": "cv.pdf"}

Requires RABBITMQ_URL (or worker.rabbitmq_url). Storage is configured with
S3_BUCKET, S3_ENDPOINT, S3_REGION, S3_ACCESS_KEY and S3_SECRET_KEY.`,
	RunE: runWorker,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of consumers (default from config)")
}

func runWorker(cmd *cobra.Command, args []string) (err error) {
	rt, err := setup()
	if err != nil {
		return err
	}

	if rt.cfg.Worker.RabbitMQURL == "" {
		err = errors.New("worker.rabbitmq_url is not configured (set RABBITMQ_URL)")
		return err
	}

	var downloader worker.Downloader
	if rt.cfg.Storage.Bucket != "" {
		var s3Downloader *worker.S3Downloader
		s3Downloader, err = worker.NewS3Downloader(cmd.Context(), rt.cfg.Storage)
		if err != nil {
			return err
		}
		downloader = s3Downloader
	} else {
		rt.logger.Warn("no storage bucket configured, jobs referencing stored CVs will fail")
	}

	concurrency := workerConcurrency
	if concurrency <= 0 {
		concurrency = rt.cfg.Worker.Concurrency
	}

	consumer := worker.NewConsumer(worker.ConsumerConfig{
		URL:           rt.cfg.Worker.RabbitMQURL,
		Queue:         rt.cfg.Worker.Queue,
		ReplyExchange: rt.cfg.Worker.ReplyExchange,
		Concurrency:   concurrency,
	}, worker.NewHandler(rt.svc, downloader), rt.logger)

	rt.logger.Info("starting worker",
		slog.String("version", version),
		slog.Int("concurrency", concurrency),
	)

	err = consumer.Run(cmd.Context())
	return err
}
