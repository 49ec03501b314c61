package logic

import (
	"fmt"
	"testing"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/database"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	adminAddr    = common.HexToAddress("0x00000000000000000000000000000000000000AD")
	investorAddr = common.HexToAddress("0x0000000000000000000000000000000000000001")
	investorB    = common.HexToAddress("0x0000000000000000000000000000000000000002")
	investorC    = common.HexToAddress("0x0000000000000000000000000000000000000003")
	strangerAddr = common.HexToAddress("0x00000000000000000000000000000000000000FF")
)

var testDBCounter int

// newTestDB 打开一个独立的内存数据库并完成迁移。
// 连接池会复用连接，必须用带名字的共享内存DSN。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// newTestConfig 带有一个管理员地址的配置
func newTestConfig() *config.Config {
	return &config.Config{
		Admin: config.AdminConfig{
			Addresses: []string{adminAddr.Hex()},
		},
	}
}

// createTestProject 建一个目标金额为target的活跃项目
func createTestProject(t *testing.T, db *gorm.DB, target int64) *model.ProjectModel {
	t.Helper()

	project := &model.ProjectModel{
		Title:        "测试影片",
		Description:  "test project",
		TargetAmount: target,
		Creator:      investorAddr,
		Active:       true,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// engines 组装一套共用同一数据库的逻辑引擎
type engines struct {
	cfg          *config.Config
	claims       *ClaimLogic
	rewards      *RewardLogic
	revenue      *RevenueLogic
	milestones   *MilestoneLogic
	attestations *AttestationLogic
	payments     *PaymentLogic
}

func newEngines(db *gorm.DB) *engines {
	cfg := newTestConfig()
	claims := NewClaimLogic(db, cfg)
	attestations := NewAttestationLogic(db, cfg)
	return &engines{
		cfg:          cfg,
		claims:       claims,
		rewards:      NewRewardLogic(db, cfg, claims),
		revenue:      NewRevenueLogic(db, cfg),
		milestones:   NewMilestoneLogic(db, cfg, attestations),
		attestations: attestations,
		payments:     NewPaymentLogic(db, cfg, claims, attestations),
	}
}

// verifyAndProcess 登记并入账一笔支付，返回铸出的凭证
func verifyAndProcess(t *testing.T, e *engines, projectId int64, investor common.Address, amount int64, ref string) *model.ClaimModel {
	t.Helper()

	require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
		TxRef:     ref,
		Sender:    investor,
		Recipient: adminAddr,
		Amount:    amount,
	}))

	record, err := e.payments.ProcessPayment(adminAddr, projectId, investor, amount, ref, 100)
	require.NoError(t, err)

	claim, err := e.claims.GetClaim(record.ClaimId)
	require.NoError(t, err)
	return claim
}

// uniqueRef 生成不重复的交易引用
var refCounter int

func uniqueRef() string {
	refCounter++
	return fmt.Sprintf("0xtest%06d", refCounter)
}
