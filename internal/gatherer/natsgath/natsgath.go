// Package natsgath streams evaluation messages to a NATS reply subject.
package natsgath

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/codelab-lv/runner/api"
	"github.com/codelab-lv/runner/internal/gatherer"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/sandbox"
)

type natsGatherer struct {
	nc       *nats.Conn
	subject  string
	evalUuid string
	log      *slog.Logger
}

// New creates a gatherer that publishes the result stream for one evaluation
// to the given subject.
func New(nc *nats.Conn, evalUuid, subject string, log *slog.Logger) gatherer.Gatherer {
	if log == nil {
		log = slog.Default()
	}
	return &natsGatherer{nc: nc, subject: subject, evalUuid: evalUuid, log: log}
}

func (g *natsGatherer) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		g.log.Error("failed to marshal stream message", slog.Any("error", err))
		return
	}
	if err := g.nc.Publish(g.subject, b); err != nil {
		g.log.Error("failed to publish stream message",
			slog.String("subject", g.subject), slog.Any("error", err))
	}
}

func (g *natsGatherer) StartJob(language string) {
	g.send(api.NewStartJob(g.evalUuid, language))
}

func (g *natsGatherer) StartTest(test grader.TestCase) {
	var input, answer *string
	if !test.Hidden {
		if test.Input != nil {
			in := gatherer.TrimToRect(*test.Input, api.MaxStreamHeight, api.MaxStreamWidth)
			input = &in
		}
		ans := gatherer.TrimToRect(test.Answer, api.MaxStreamHeight, api.MaxStreamWidth)
		answer = &ans
	}
	g.send(api.NewStartTest(g.evalUuid, test.ID, input, answer))
}

func (g *natsGatherer) FinishTest(res grader.TestResult) {
	wire := gatherer.EncodeTestResult(res)
	wire.Stdout = gatherer.TrimToRect(wire.Stdout, api.MaxStreamHeight, api.MaxStreamWidth)
	wire.Stderr = gatherer.TrimToRect(wire.Stderr, api.MaxStreamHeight, api.MaxStreamWidth)
	g.send(api.NewFinishTest(g.evalUuid, wire))
}

func (g *natsGatherer) FinishRun(data sandbox.Result) {
	msg := api.NewFinishJob(g.evalUuid, api.StatusOK, nil)
	runData := gatherer.EncodeRunData(data)
	msg.RunData = &runData
	g.send(msg)
}

func (g *natsGatherer) FinishVerdict(verdict grader.Verdict) {
	msg := api.NewFinishJob(g.evalUuid, api.StatusOK, nil)
	wire := gatherer.EncodeVerdict(verdict)
	msg.Verdict = &wire
	g.send(msg)
}

func (g *natsGatherer) ClientError(msg string) {
	g.send(api.NewFinishJob(g.evalUuid, api.StatusClientError, &msg))
}

func (g *natsGatherer) InternalError(msg string) {
	g.send(api.NewFinishJob(g.evalUuid, api.StatusInternalError, &msg))
}
