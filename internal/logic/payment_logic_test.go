package logic

import (
	"math"
	"testing"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPayment(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
		TxRef:  "tx1",
		Sender: investorAddr,
		Amount: 25000,
	}))

	record, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 25000, "tx1", 100)
	require.NoError(t, err)

	// 25000 / 100000 = 2500 基点
	claim, err := e.claims.GetClaim(record.ClaimId)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), claim.BasisPoints)
	assert.Equal(t, model.ClaimStatusActive, claim.Status)
	assert.Equal(t, investorAddr, claim.Owner)
	assert.Equal(t, "tx1", claim.PaymentRef)
	assert.Equal(t, int64(100), claim.JoinPrice)

	// 项目累计募资随之增加
	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, int64(25000), updated.RaisedAmount)
}

func TestProcessPaymentDuplicate(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
		TxRef:  "tx1",
		Sender: investorAddr,
		Amount: 25000,
	}))

	_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 25000, "tx1", 100)
	require.NoError(t, err)

	// 同一引用第二次入账必须失败，且只铸一个凭证
	_, err = e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 25000, "tx1", 100)
	assert.ErrorIs(t, err, apperr.ErrDuplicatePayment)

	var count int64
	require.NoError(t, db.Model(&model.ClaimModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 募资额不被第二次调用污染
	var updated model.ProjectModel
	require.NoError(t, db.First(&updated, project.Id).Error)
	assert.Equal(t, int64(25000), updated.RaisedAmount)
}

func TestProcessPaymentFailures(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	t.Run("unverified payment", func(t *testing.T) {
		_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 1000, "tx-unseen", 100)
		assert.ErrorIs(t, err, apperr.ErrUnverifiedPayment)
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 0, "tx-zero", 100)
		assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	})

	t.Run("contribution too small", func(t *testing.T) {
		// 9 / 100000 不足1个基点
		require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
			TxRef:  "tx-small",
			Sender: investorAddr,
			Amount: 9,
		}))
		_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 9, "tx-small", 100)
		assert.ErrorIs(t, err, apperr.ErrContributionTooSmall)
	})

	t.Run("amount exceeds target", func(t *testing.T) {
		// 150000 / 100000 超过10000基点，单笔不允许超募
		require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
			TxRef:  "tx-over",
			Sender: investorAddr,
			Amount: 150000,
		}))
		_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 150000, "tx-over", 100)
		assert.ErrorIs(t, err, apperr.ErrInvalidShare)
	})

	t.Run("amount beyond overflow bound", func(t *testing.T) {
		huge := int64(math.MaxInt64/model.BasisPointsTotal + 1)
		_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, huge, "tx-huge", 100)
		assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	})

	t.Run("project not found", func(t *testing.T) {
		_, err := e.payments.ProcessPayment(adminAddr, 9999, investorAddr, 1000, "tx-nope", 100)
		assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	})

	t.Run("inactive project", func(t *testing.T) {
		require.NoError(t, db.Model(project).Update("active", false).Error)
		defer db.Model(project).Update("active", true)

		_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 1000, "tx-inactive", 100)
		assert.ErrorIs(t, err, apperr.ErrProjectInactive)
	})

	t.Run("non-admin caller", func(t *testing.T) {
		_, err := e.payments.ProcessPayment(strangerAddr, project.Id, investorAddr, 1000, "tx-stranger", 100)
		assert.ErrorIs(t, err, apperr.ErrAdminOnly)
	})
}

// 完整场景：入账 → 重复拒绝 → 收益入队 → 分配
func TestPaymentToDistributionScenario(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	claim := verifyAndProcess(t, e, project.Id, investorAddr, 25000, "tx1")
	assert.Equal(t, int64(2500), claim.BasisPoints)

	_, err := e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 25000, "tx1", 100)
	assert.ErrorIs(t, err, apperr.ErrDuplicatePayment)

	require.NoError(t, e.revenue.AddRevenue(adminAddr, project.Id, 1000, "box_office"))

	record, err := e.revenue.Distribute(adminAddr, project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), record.TotalAmount)
	assert.Equal(t, 1, record.ClaimsPaid)

	// 唯一的活跃凭证拿走全部1000
	balance, err := e.revenue.GetBalance(investorAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	// 队列清空
	_, total, err := e.revenue.PendingRevenue(project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
