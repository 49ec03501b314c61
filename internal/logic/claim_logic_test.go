package logic

import (
	"testing"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintClaimInvalidShare(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	_, err := e.claims.mintClaim(db, investorAddr, project.Id, 0, 100, "tx-x")
	assert.ErrorIs(t, err, apperr.ErrInvalidShare)

	_, err = e.claims.mintClaim(db, investorAddr, project.Id, -5, 100, "tx-x")
	assert.ErrorIs(t, err, apperr.ErrInvalidShare)

	// 单个凭证不允许超过100%
	_, err = e.claims.mintClaim(db, investorAddr, project.Id, model.BasisPointsTotal+1, 100, "tx-x")
	assert.ErrorIs(t, err, apperr.ErrInvalidShare)
}

func TestClaimNonTransferable(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)
	claim := verifyAndProcess(t, e, project.Id, investorAddr, 25000, uniqueRef())

	// 所有者本人也无法转让
	err := e.claims.Transfer(investorAddr, claim.Id, investorB)
	assert.ErrorIs(t, err, apperr.ErrNonTransferable)

	err = e.claims.Approve(investorAddr, claim.Id, investorB)
	assert.ErrorIs(t, err, apperr.ErrNonTransferable)

	// 所有者不变
	got, err := e.claims.GetClaim(claim.Id)
	require.NoError(t, err)
	assert.Equal(t, investorAddr, got.Owner)
}

func TestClaimStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	project := createTestProject(t, db, 100000)

	t.Run("slash active claim", func(t *testing.T) {
		claim := verifyAndProcess(t, e, project.Id, investorAddr, 10000, uniqueRef())

		require.NoError(t, e.claims.Slash(adminAddr, claim.Id))

		got, err := e.claims.GetClaim(claim.Id)
		require.NoError(t, err)
		assert.Equal(t, model.ClaimStatusSlashed, got.Status)
	})

	t.Run("slash is terminal", func(t *testing.T) {
		claim := verifyAndProcess(t, e, project.Id, investorAddr, 10000, uniqueRef())
		require.NoError(t, e.claims.Slash(adminAddr, claim.Id))

		// 罚没后不能再罚没，也不能质押
		err := e.claims.Slash(adminAddr, claim.Id)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

		_, err = e.rewards.Stake(investorAddr, claim.Id)
		assert.ErrorIs(t, err, apperr.ErrNotActive)
	})

	t.Run("slash requires admin", func(t *testing.T) {
		claim := verifyAndProcess(t, e, project.Id, investorAddr, 10000, uniqueRef())

		err := e.claims.Slash(investorAddr, claim.Id)
		assert.ErrorIs(t, err, apperr.ErrAdminOnly)
	})

	t.Run("slash missing claim", func(t *testing.T) {
		err := e.claims.Slash(adminAddr, 99999)
		assert.ErrorIs(t, err, apperr.ErrClaimNotFound)
	})
}

func TestClaimQueries(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	projectA := createTestProject(t, db, 100000)
	projectB := createTestProject(t, db, 100000)

	c1 := verifyAndProcess(t, e, projectA.Id, investorAddr, 10000, uniqueRef())
	c2 := verifyAndProcess(t, e, projectA.Id, investorB, 20000, uniqueRef())
	c3 := verifyAndProcess(t, e, projectB.Id, investorAddr, 30000, uniqueRef())

	byOwner, err := e.claims.ListByOwner(investorAddr)
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	assert.Equal(t, c1.Id, byOwner[0].Id)
	assert.Equal(t, c3.Id, byOwner[1].Id)

	byProject, err := e.claims.ListByProject(projectA.Id)
	require.NoError(t, err)
	require.Len(t, byProject, 2)
	assert.Equal(t, c1.Id, byProject[0].Id)
	assert.Equal(t, c2.Id, byProject[1].Id)

	_, err = e.claims.GetClaim(99999)
	assert.ErrorIs(t, err, apperr.ErrClaimNotFound)
}
