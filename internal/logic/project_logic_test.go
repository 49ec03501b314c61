package logic

import (
	"testing"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	projects := NewProjectLogic(db, e.cfg)

	project := &model.ProjectModel{
		Title:        "星际之门",
		Description:  "科幻长片",
		Category:     "feature",
		TargetAmount: 500000,
		Creator:      investorAddr,
	}
	require.NoError(t, projects.CreateProject(project))
	assert.True(t, project.Active)
	assert.Equal(t, int64(0), project.RaisedAmount)

	got, err := projects.GetProject(project.Id)
	require.NoError(t, err)
	assert.Equal(t, "星际之门", got.Title)
}

func TestCreateProjectValidation(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	projects := NewProjectLogic(db, e.cfg)

	assert.Error(t, projects.CreateProject(&model.ProjectModel{
		TargetAmount: 1000, Creator: investorAddr,
	}))
	assert.Error(t, projects.CreateProject(&model.ProjectModel{
		Title: "无目标", Creator: investorAddr,
	}))
	assert.Error(t, projects.CreateProject(&model.ProjectModel{
		Title: "无创建者", TargetAmount: 1000,
	}))
}

func TestSetActive(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	projects := NewProjectLogic(db, e.cfg)
	project := createTestProject(t, db, 100000)

	err := projects.SetActive(strangerAddr, project.Id, false)
	assert.ErrorIs(t, err, apperr.ErrAdminOnly)

	require.NoError(t, projects.SetActive(adminAddr, project.Id, false))
	got, err := projects.GetProject(project.Id)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// 停用后拒绝新的支付入账
	ref := uniqueRef()
	require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
		TxRef: ref, Sender: investorAddr, Recipient: adminAddr, Amount: 10000,
	}))
	_, err = e.payments.ProcessPayment(adminAddr, project.Id, investorAddr, 10000, ref, 100)
	assert.ErrorIs(t, err, apperr.ErrProjectInactive)

	err = projects.SetActive(adminAddr, 99999, true)
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
}

func TestGetProjectStats(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	projects := NewProjectLogic(db, e.cfg)
	project := createTestProject(t, db, 100000)

	verifyAndProcess(t, e, project.Id, investorAddr, 20000, uniqueRef())
	staked := verifyAndProcess(t, e, project.Id, investorB, 30000, uniqueRef())
	_, err := e.rewards.Stake(investorB, staked.Id)
	require.NoError(t, err)
	require.NoError(t, e.revenue.AddRevenue(adminAddr, project.Id, 800, "box_office"))

	stats, err := projects.GetProjectStats(project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), stats["raised_amount"])
	assert.Equal(t, int64(2), stats["claim_count"])
	assert.Equal(t, int64(2), stats["investor_count"])
	assert.Equal(t, int64(1), stats["staked_count"])
	assert.Equal(t, int64(800), stats["pending_revenue"])
	assert.InDelta(t, 50.0, stats["completion_percentage"], 0.001)
}

func TestGetProjectsPagination(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectLogic(db, newTestConfig())

	for i := 0; i < 5; i++ {
		createTestProject(t, db, 100000)
	}

	page, total, err := projects.GetProjects(1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 3)

	page, _, err = projects.GetProjects(2, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
