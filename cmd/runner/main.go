package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/codelab-lv/runner/api"
	"github.com/codelab-lv/runner/internal/engine"
	"github.com/codelab-lv/runner/internal/environment"
	"github.com/codelab-lv/runner/internal/exercises"
	"github.com/codelab-lv/runner/internal/gatherer"
	"github.com/codelab-lv/runner/internal/gatherer/natsgath"
	"github.com/codelab-lv/runner/internal/gatherer/sqsgath"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/langs"
	"github.com/codelab-lv/runner/internal/progress"
	"github.com/codelab-lv/runner/internal/sandbox"
)

func main() {
	cmd := &cli.Command{
		Name:  "runner",
		Usage: "code execution and grading worker",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 4,
				Usage: "max submissions evaluated at once",
			},
			&cli.BoolFlag{
				Name:  "no-short-circuit",
				Usage: "keep running tests after the first crashing one",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("runner exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := environment.ReadEnvConfig()
	level := cfg.LogLevel
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	store, err := buildStore(cfg, log)
	if err != nil {
		return err
	}

	nc, err := nats.Connect(cfg.NatsURL, nats.Name("codelab-runner"))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NatsURL, err)
	}
	defer nc.Close()

	var sqsClient *sqs.Client
	if cfg.SqsResultQueueUrl != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AwsRegion))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		sqsClient = sqs.NewFromConfig(awsCfg)
	}

	runner := sandbox.NewRunner(log)
	grd := grader.New(runner, log,
		grader.WithStopOnCrash(!cmd.Bool("no-short-circuit")))
	recorder := progress.NewNatsRecorder(nc, cfg.ProgressSubject)
	eng := engine.New(registry, runner, grd, store, recorder, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The signal only stops the consume loop; in-flight evaluations keep
	// running to completion under their own timeouts.
	jobCtx := context.WithoutCancel(ctx)
	var jobs errgroup.Group
	jobs.SetLimit(int(cmd.Int("concurrency")))
	seen := newDedupe(submDedupeWindow)

	sub, err := nc.QueueSubscribe(cfg.SubmSubject, "runner", func(msg *nats.Msg) {
		var subm api.Submission
		if err := json.Unmarshal(msg.Data, &subm); err != nil {
			log.Warn("dropping malformed submission", slog.Any("error", err))
			return
		}
		evalUuid, replyTo := submissionMeta(&subm, msg.Reply)
		if seen.Seen(evalUuid) {
			log.Warn("dropping duplicate submission", slog.String("eval_uuid", evalUuid))
			return
		}
		jobs.Go(func() error {
			gath := buildGatherer(nc, sqsClient, cfg, evalUuid, replyTo, log)
			switch subm.Type {
			case api.SubmissionExec:
				eng.ExecuteJob(jobCtx, *subm.Exec, gath)
			case api.SubmissionGrade:
				eng.GradeJob(jobCtx, *subm.Grade, gath)
			default:
				log.Warn("dropping submission with unknown type",
					slog.String("type", string(subm.Type)))
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", cfg.SubmSubject, err)
	}

	log.Info("runner started",
		slog.String("subject", cfg.SubmSubject),
		slog.Any("languages", registry.IDs()))

	<-ctx.Done()
	log.Info("shutting down, draining in-flight evaluations")
	if err := sub.Drain(); err != nil {
		log.Warn("failed to drain subscription", slog.Any("error", err))
	}
	// Drain returns before pending callbacks have run; wait until the
	// subscription is gone so no new jobs are spawned concurrently with Wait.
	for sub.IsValid() {
		time.Sleep(50 * time.Millisecond)
	}
	return jobs.Wait()
}

func buildRegistry(cfg *environment.EnvConfig) (*langs.Registry, error) {
	if cfg.LanguagesFile != "" {
		return langs.LoadFile(cfg.LanguagesFile)
	}
	return langs.NewRegistry(langs.Defaults()...)
}

func buildStore(cfg *environment.EnvConfig, log *slog.Logger) (exercises.Store, error) {
	if _, err := os.Stat(cfg.ExercisesDir); os.IsNotExist(err) {
		log.Warn("exercise directory missing, grading requests will fail",
			slog.String("dir", cfg.ExercisesDir))
		return exercises.NewMemStore(), nil
	}
	return exercises.LoadDir(cfg.ExercisesDir)
}

// submissionMeta extracts the eval uuid and reply subject from a submission,
// assigning a fresh uuid when the sender omitted one.
func submissionMeta(subm *api.Submission, natsReply string) (evalUuid, replyTo string) {
	switch {
	case subm.Exec != nil:
		if subm.Exec.EvalUuid == "" {
			subm.Exec.EvalUuid = uuid.NewString()
		}
		evalUuid = subm.Exec.EvalUuid
	case subm.Grade != nil:
		if subm.Grade.EvalUuid == "" {
			subm.Grade.EvalUuid = uuid.NewString()
		}
		evalUuid = subm.Grade.EvalUuid
		replyTo = subm.Grade.ReplyTo
	default:
		evalUuid = uuid.NewString()
	}
	if replyTo == "" {
		replyTo = natsReply
	}
	return evalUuid, replyTo
}

// buildGatherer fans results out to the NATS reply subject and, when
// configured, a durable SQS result queue.
func buildGatherer(
	nc *nats.Conn,
	sqsClient *sqs.Client,
	cfg *environment.EnvConfig,
	evalUuid, replyTo string,
	log *slog.Logger,
) gatherer.Gatherer {
	var gatherers []gatherer.Gatherer
	if replyTo != "" {
		gatherers = append(gatherers, natsgath.New(nc, evalUuid, replyTo, log))
	}
	if sqsClient != nil {
		gatherers = append(gatherers, sqsgath.New(sqsClient, evalUuid, cfg.SqsResultQueueUrl, log))
	}
	return gatherer.Multi(gatherers...)
}
