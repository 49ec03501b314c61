package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/ethereum"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/logic"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// PaymentMonitor 链上支付监听中继。扫描募资合约的投资事件，
// 先登记支付凭证再走入账流程。中继是生产者，账本的幂等性
// 保证重复扫描不会重复铸造。
type PaymentMonitor struct {
	client       *ethereum.Client
	cfg          *config.Config
	attestations *logic.AttestationLogic
	payments     *logic.PaymentLogic
	pool         *ants.Pool

	relayAddr     ethcommon.Address // 以管理员身份写入账本
	startBlockNum uint64
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.RWMutex // 保护 startBlockNum 的并发访问
	wg            sync.WaitGroup
}

// NewPaymentMonitor 创建支付监听中继
func NewPaymentMonitor(client *ethereum.Client, db *gorm.DB, cfg *config.Config) (*PaymentMonitor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	poolSize := cfg.Chain.WorkerPool
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		cancel()
		return nil, err
	}

	claims := logic.NewClaimLogic(db, cfg)
	attestations := logic.NewAttestationLogic(db, cfg)

	var relayAddr ethcommon.Address
	if len(cfg.Admin.Addresses) > 0 {
		relayAddr = ethcommon.HexToAddress(cfg.Admin.Addresses[0])
	}

	return &PaymentMonitor{
		client:        client,
		cfg:           cfg,
		attestations:  attestations,
		payments:      logic.NewPaymentLogic(db, cfg, claims, attestations),
		pool:          pool,
		relayAddr:     relayAddr,
		startBlockNum: client.StartBlock(),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start 启动监听
func (m *PaymentMonitor) Start() error {
	logger.Info("Starting payment monitor from block %d", m.getStartBlock())

	// 测试 RPC 连接
	current, err := m.client.GetLatestBlock()
	if err != nil {
		return err
	}
	logger.Info("Connected to blockchain, current block: %d", current)

	go m.loop()
	return nil
}

// Stop 停止监听
func (m *PaymentMonitor) Stop() {
	logger.Info("Stopping payment monitor")
	m.cancel()
	m.wg.Wait()
	m.pool.Release()
}

// loop 轮询循环
func (m *PaymentMonitor) loop() {
	interval := time.Duration(m.cfg.Chain.PollInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Payment monitor stopped")
			return
		case <-ticker.C:
			if err := m.scan(); err != nil {
				logger.Error("Payment monitor scan failed: %v", err)
			}
		}
	}
}

// scan 扫描一轮已确认区块
func (m *PaymentMonitor) scan() error {
	confirmed, err := m.client.ConfirmedBlock()
	if err != nil {
		return err
	}

	from := m.getStartBlock()
	if from > confirmed {
		return nil
	}

	batch := m.cfg.Chain.BatchSize
	if batch == 0 {
		batch = 1000
	}

	for from <= confirmed {
		to := from + batch - 1
		if to > confirmed {
			to = confirmed
		}

		logs, err := m.client.GetLogs(from, to)
		if err != nil {
			return err
		}

		for _, lg := range logs {
			lg := lg
			m.wg.Add(1)
			if err := m.pool.Submit(func() {
				defer m.wg.Done()
				m.handleLog(lg)
			}); err != nil {
				m.wg.Done()
				logger.Error("Failed to submit log to worker pool: %v", err)
			}
		}
		m.wg.Wait()

		m.setStartBlock(to + 1)
		from = to + 1
	}

	return nil
}

// handleLog 处理单条事件日志
func (m *PaymentMonitor) handleLog(lg types.Log) {
	event, err := m.client.ParseInvestmentEvent(lg)
	if err != nil {
		logger.Error("Failed to parse log %s: %v", lg.TxHash.Hex(), err)
		return
	}
	if event == nil {
		return
	}

	blockTime, err := m.client.GetBlockTime(event.BlockNum)
	if err != nil {
		logger.Warn("Failed to get block time for %d: %v", event.BlockNum, err)
	}

	// 先登记支付凭证。重复扫描会撞上AlreadyVerified，跳过即可。
	err = m.attestations.VerifyPayment(m.relayAddr, logic.PaymentProofInput{
		TxRef:        event.TxHash,
		Sender:       event.Investor,
		Recipient:    m.client.ContractAddr,
		Amount:       event.Amount,
		ExternalTime: blockTime,
		BlockNum:     int64(event.BlockNum),
	})
	if err != nil && !errors.Is(err, apperr.ErrAlreadyVerified) {
		logger.Error("Failed to verify payment %s: %v", event.TxHash, err)
		return
	}

	_, err = m.payments.ProcessPayment(m.relayAddr, event.ProjectId, event.Investor,
		event.Amount, event.TxHash, event.Price)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicatePayment) {
			return
		}
		logger.Error("Failed to process payment %s: %v", event.TxHash, err)
		return
	}

	logger.Info("Relayed investment: project=%d investor=%s amount=%d tx=%s",
		event.ProjectId, event.Investor.Hex(), event.Amount, event.TxHash)
}

func (m *PaymentMonitor) getStartBlock() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startBlockNum
}

func (m *PaymentMonitor) setStartBlock(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startBlockNum = n
}
