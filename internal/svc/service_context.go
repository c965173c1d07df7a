package svc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"

	"klend-client-sol/internal/config"
	"klend-client-sol/internal/logic/journal"
	"klend-client-sol/internal/logic/resolver"
	"klend-client-sol/internal/logic/state"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/mq"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/rpcclient"
)

// StateReader 操作层需要的读取能力，state.Reader 实现
type StateReader interface {
	resolver.StateReader
	Exists(ctx context.Context, addr types.Pubkey) (bool, error)
}

// RentProvider 新建账户时查询免租金余额
type RentProvider interface {
	MinimumBalanceForRentExemption(ctx context.Context, space uint64) (uint64, error)
}

// ServiceContext 初始化后只读，可在多个 goroutine 间共享
type ServiceContext struct {
	Config    config.ClientConfig
	ProgramID types.Pubkey
	Reader    StateReader
	Resolver  *resolver.Resolver
	Submitter *submitter.Submitter
	Rent      RentProvider
	Signer    submitter.Signer
	Journal   *journal.Manager

	closers []func()
	once    sync.Once
}

// Assemble 用已有的传输层组装上下文，不启动任何后台任务
func Assemble(
	c config.ClientConfig,
	programID types.Pubkey,
	reader StateReader,
	transport submitter.Transport,
	rent RentProvider,
	signer submitter.Signer,
	opts ...submitter.Option,
) *ServiceContext {
	return &ServiceContext{
		Config:    c,
		ProgramID: programID,
		Reader:    reader,
		Resolver:  resolver.New(reader, programID),
		Submitter: submitter.New(transport, c.Submit.ToSubmitterConfig(), opts...),
		Rent:      rent,
		Signer:    signer,
	}
}

// NewServiceContext 创建 RPC 客户端，按配置启用 journal（Redis / PostgreSQL）与 Kafka 结果发布
func NewServiceContext(c config.ClientConfig, signer submitter.Signer) (*ServiceContext, error) {
	programID, err := c.Program.ID()
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}
	rpc, err := rpcclient.New(c.Rpc.Endpoint, c.Rpc.Timeout())
	if err != nil {
		return nil, err
	}

	var (
		opts    []submitter.Option
		closers []func()
	)
	bgCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// 1. journal
	manager, journalClosers, err := newJournal(bgCtx, c.Journal)
	if err != nil {
		cancel()
		return nil, err
	}
	if manager != nil {
		opts = append(opts, submitter.WithRecorder(manager))
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.StartFlushLoop(bgCtx, c.Journal.FlushInterval())
		}()
		manager.StartGCLoop(bgCtx, time.Hour, c.Journal.Retention())
	}

	// 2. Kafka 结果发布
	var producer *kafka.Producer
	if c.KafkaProducer.Brokers != "" {
		producer, err = mq.NewKafkaProducer(c.KafkaProducer.ToKafkaOption())
		if err != nil {
			logger.Errorf("[ServiceContext] Kafka producer 初始化失败: %v", err)
			cancel()
			for _, fn := range journalClosers {
				fn()
			}
			return nil, err
		}
		opts = append(opts, submitter.WithNotifier(mq.NewKafkaNotifier(
			producer, c.KafkaProducer.Topic, c.KafkaProducer.Partitions, programID.String(), c.KafkaProducer.SendTimeout(),
		)))
	}

	// 关闭顺序：先停后台任务（最后一次 flush），再关连接
	closers = append(closers, func() {
		cancel()
		wg.Wait()
	})
	closers = append(closers, journalClosers...)
	if producer != nil {
		closers = append(closers, func() {
			producer.Flush(5000)
			producer.Close()
		})
	}

	s := Assemble(c, programID, state.NewReader(rpc, programID), rpc, rpc, signer, opts...)
	s.Journal = manager
	s.closers = closers
	logger.Infof("[ServiceContext] 初始化完成: program=%s, rpc=%s, journal=%v, kafka=%v",
		programID, c.Rpc.Endpoint, manager != nil, producer != nil)
	return s, nil
}

func newJournal(ctx context.Context, c config.JournalConfig) (*journal.Manager, []func(), error) {
	if c.RedisAddr == "" && c.PostgresDSN == "" {
		return nil, nil, nil
	}

	var (
		hot     *journal.RedisJournalStore
		durable *journal.DBJournalStore
		closers []func()
	)
	if c.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", c.RedisAddr, err)
		}
		hot = journal.NewRedisJournalStore(rdb, c.TTL())
		closers = append(closers, func() { _ = rdb.Close() })
	}
	if c.PostgresDSN != "" {
		db, err := journal.NewDBJournalStore(ctx, c.PostgresDSN)
		if err != nil {
			for _, fn := range closers {
				fn()
			}
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		durable = db
		closers = append(closers, db.Close)
	}

	// nil 指针不能直接转成接口，否则 Manager 内的 nil 判断失效
	switch {
	case hot != nil && durable != nil:
		return journal.NewManager(hot, durable), closers, nil
	case hot != nil:
		return journal.NewManager(hot, nil), closers, nil
	default:
		return journal.NewManager(nil, durable), closers, nil
	}
}

// Close 停止后台任务并释放连接，可重复调用
func (s *ServiceContext) Close() {
	s.once.Do(func() {
		for _, fn := range s.closers {
			fn()
		}
	})
}
