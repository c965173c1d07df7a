package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/utils"
)

// ResultEvent 发布到事件流的最终提交结果
type ResultEvent struct {
	submitter.Result
	ProgramID   string `json:"program_id"`
	PublishedAt int64  `json:"published_at"`
}

type sendFunc func(ctx context.Context, jobs []*KafkaJob) ([]*KafkaJob, []KafkaSendResult)

// KafkaNotifier 实现 submitter.Notifier，同一签名总是落在同一分区
type KafkaNotifier struct {
	topic      string
	partitions uint32
	programID  string
	send       sendFunc
}

var _ submitter.Notifier = (*KafkaNotifier)(nil)

func NewKafkaNotifier(producer *kafka.Producer, topic string, partitions int, programID string, timeout time.Duration) *KafkaNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return newNotifier(topic, partitions, programID, func(ctx context.Context, jobs []*KafkaJob) ([]*KafkaJob, []KafkaSendResult) {
		return SendKafkaJobs(ctx, producer, jobs, timeout)
	})
}

func newNotifier(topic string, partitions int, programID string, send sendFunc) *KafkaNotifier {
	if partitions <= 0 {
		partitions = 1
	}
	return &KafkaNotifier{
		topic:      topic,
		partitions: uint32(partitions),
		programID:  programID,
		send:       send,
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, result submitter.Result) error {
	job, err := n.buildJob(result)
	if err != nil {
		return err
	}
	_, failed := n.send(ctx, []*KafkaJob{job})
	if len(failed) > 0 {
		return fmt.Errorf("publish %s: %w", result.Signature, failed[0].Err)
	}
	logger.Debugf("[mq] 已发布结果: signature=%s, state=%s, partition=%d", result.Signature, result.State, job.Partition)
	return nil
}

func (n *KafkaNotifier) buildJob(result submitter.Result) (*KafkaJob, error) {
	value, err := json.Marshal(ResultEvent{
		Result:      result,
		ProgramID:   n.programID,
		PublishedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	key := []byte(result.Signature.String())
	return &KafkaJob{
		Topic:     n.topic,
		Partition: utils.PartitionFor(key, n.partitions),
		Key:       key,
		Value:     value,
	}, nil
}
