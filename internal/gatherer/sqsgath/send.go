package sqsgath

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/klauspost/compress/zstd"
)

// SQS caps message bodies at 256 KiB. Verdicts carrying full student output
// can exceed that, so bodies over the threshold travel zstd-compressed and
// base64-framed, flagged via a message attribute.
const compressThreshold = 200 * 1024

var zstdEncoder, _ = zstd.NewWriter(nil)

func (g *sqsGatherer) send(msg any) {
	body, err := json.Marshal(msg)
	if err != nil {
		g.log.Error("failed to marshal stream message", slog.Any("error", err))
		return
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(g.queueUrl),
		MessageBody: aws.String(string(body)),
	}
	if len(body) > compressThreshold {
		compressed := zstdEncoder.EncodeAll(body, nil)
		input.MessageBody = aws.String(base64.StdEncoding.EncodeToString(compressed))
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"content-encoding": {
				DataType:    aws.String("String"),
				StringValue: aws.String("zstd+base64"),
			},
		}
	}

	if _, err := g.client.SendMessage(context.Background(), input); err != nil {
		g.log.Error("failed to send stream message",
			slog.String("queue", g.queueUrl), slog.Any("error", err))
	}
}
