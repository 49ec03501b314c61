package logic

import (
	"testing"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMilestone(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	// 创建者追加，序号从0递增
	m0, err := e.milestones.AddMilestone(investorAddr, project.Id, "剧本定稿", "", 30000)
	require.NoError(t, err)
	assert.Equal(t, 0, m0.Seq)
	assert.Equal(t, model.MilestoneStatusPending, m0.Status)

	// 管理员同样可以追加
	m1, err := e.milestones.AddMilestone(adminAddr, project.Id, "开机", "", 40000)
	require.NoError(t, err)
	assert.Equal(t, 1, m1.Seq)

	milestones, err := e.milestones.GetProjectMilestones(project.Id)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.Equal(t, "剧本定稿", milestones[0].Title)
}

func TestAddMilestoneFailures(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	t.Run("invalid amount", func(t *testing.T) {
		_, err := e.milestones.AddMilestone(investorAddr, project.Id, "开机", "", 0)
		assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
	})

	t.Run("not creator or admin", func(t *testing.T) {
		_, err := e.milestones.AddMilestone(strangerAddr, project.Id, "开机", "", 1000)
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
	})

	t.Run("project not found", func(t *testing.T) {
		_, err := e.milestones.AddMilestone(investorAddr, 99999, "开机", "", 1000)
		assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	})

	t.Run("inactive project", func(t *testing.T) {
		require.NoError(t, db.Model(project).Update("active", false).Error)
		_, err := e.milestones.AddMilestone(investorAddr, project.Id, "开机", "", 1000)
		assert.ErrorIs(t, err, apperr.ErrProjectInactive)
	})
}

func TestUnlockMilestone(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)
	claim := verifyAndProcess(t, e, project.Id, investorB, 25000, uniqueRef())

	milestone, err := e.milestones.AddMilestone(investorAddr, project.Id, "开机", "", 30000)
	require.NoError(t, err)

	key, verifierAddr := newVerifierKey(t)
	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, true))

	createdAt := time.Now().Unix()
	sig := signAttestation(t, key, project.Id, milestone.Seq, "开机", "现场记录", "proof-unlock", createdAt)
	attKey, err := e.attestations.CreateMilestoneAttestation(project.Id, milestone.Seq, "开机", "现场记录", "proof-unlock", createdAt, sig)
	require.NoError(t, err)

	require.NoError(t, e.milestones.UnlockMilestone(investorAddr, project.Id, milestone.Seq, attKey))

	milestones, err := e.milestones.GetProjectMilestones(project.Id)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.Equal(t, model.MilestoneStatusUnlocked, milestones[0].Status)
	assert.NotNil(t, milestones[0].UnlockedAt)
	assert.Equal(t, attKey, milestones[0].AttestationKey)

	// 解锁只开闸，不动任何余额或份额
	got, err := e.claims.GetClaim(claim.Id)
	require.NoError(t, err)
	assert.Equal(t, claim.BasisPoints, got.BasisPoints)
	balance, err := e.revenue.GetBalance(investorB)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	// 重复解锁
	err = e.milestones.UnlockMilestone(investorAddr, project.Id, milestone.Seq, attKey)
	assert.ErrorIs(t, err, apperr.ErrMilestoneAlreadyUnlocked)
}

func TestUnlockMilestoneFailures(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	milestone, err := e.milestones.AddMilestone(investorAddr, project.Id, "开机", "", 30000)
	require.NoError(t, err)

	t.Run("invalid attestation key", func(t *testing.T) {
		err := e.milestones.UnlockMilestone(investorAddr, project.Id, milestone.Seq, "0xdeadbeef")
		assert.ErrorIs(t, err, apperr.ErrInvalidAttestation)
	})

	t.Run("not creator or admin", func(t *testing.T) {
		err := e.milestones.UnlockMilestone(strangerAddr, project.Id, milestone.Seq, "0xdeadbeef")
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
	})

	t.Run("milestone not found", func(t *testing.T) {
		err := e.milestones.UnlockMilestone(investorAddr, project.Id, 42, "0xdeadbeef")
		assert.ErrorIs(t, err, apperr.ErrMilestoneNotFound)
	})

	t.Run("completed milestone", func(t *testing.T) {
		require.NoError(t, db.Model(&model.MilestoneModel{}).
			Where("project_id = ? AND seq = ?", project.Id, milestone.Seq).
			Update("status", model.MilestoneStatusCompleted).Error)
		err := e.milestones.UnlockMilestone(investorAddr, project.Id, milestone.Seq, "0xdeadbeef")
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})
}
