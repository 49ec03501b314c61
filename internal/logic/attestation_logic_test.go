package logic

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newVerifierKey 生成一把见证人密钥并返回其地址
func newVerifierKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func signAttestation(t *testing.T, key *ecdsa.PrivateKey, projectId int64, seq int, title, description, proofRef string, createdAt int64) []byte {
	t.Helper()

	digest := AttestDigestV1(projectId, seq, title, description, proofRef, createdAt)
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	return sig
}

func TestAuthorizeVerifier(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	_, verifierAddr := newVerifierKey(t)

	allowed, err := e.attestations.IsAuthorizedVerifier(verifierAddr)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, true))
	allowed, err = e.attestations.IsAuthorizedVerifier(verifierAddr)
	require.NoError(t, err)
	assert.True(t, allowed)

	// 撤销授权
	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, false))
	allowed, err = e.attestations.IsAuthorizedVerifier(verifierAddr)
	require.NoError(t, err)
	assert.False(t, allowed)

	err = e.attestations.AuthorizeVerifier(strangerAddr, verifierAddr, true)
	assert.ErrorIs(t, err, apperr.ErrAdminOnly)
}

// 首次登记即拒绝的地址必须保持未授权，不能被数据库默认值翻成已授权
func TestAuthorizeVerifierDenialFirst(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	key, verifierAddr := newVerifierKey(t)

	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, false))

	allowed, err := e.attestations.IsAuthorizedVerifier(verifierAddr)
	require.NoError(t, err)
	assert.False(t, allowed)

	// 该地址签出的见证同样被拒
	createdAt := time.Now().Unix()
	sig := signAttestation(t, key, 3, 0, "开机", "", "proof-denied", createdAt)
	_, err = e.attestations.CreateMilestoneAttestation(3, 0, "开机", "", "proof-denied", createdAt, sig)
	assert.ErrorIs(t, err, apperr.ErrUnauthorizedVerifier)
}

func TestCreateMilestoneAttestation(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	key, verifierAddr := newVerifierKey(t)
	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, true))

	createdAt := time.Now().Unix()
	sig := signAttestation(t, key, 7, 0, "开机", "主体拍摄启动", "ipfs://QmProof", createdAt)

	gotKey, err := e.attestations.CreateMilestoneAttestation(7, 0, "开机", "主体拍摄启动", "ipfs://QmProof", createdAt, sig)
	require.NoError(t, err)
	assert.Equal(t, AttestKeyV1(7, 0, "ipfs://QmProof", createdAt), gotKey)

	att, err := e.attestations.GetAttestation(gotKey)
	require.NoError(t, err)
	assert.Equal(t, verifierAddr, att.Verifier)
	assert.Equal(t, createdAt, att.AttestedAt)
	assert.True(t, att.Verified)

	verified, err := e.attestations.VerifyMilestoneAttestation(gotKey)
	require.NoError(t, err)
	assert.True(t, verified)
}

// 相同输入产生相同键，重复登记报重复错误而非底层唯一约束冲突
func TestCreateMilestoneAttestationDuplicate(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	key, verifierAddr := newVerifierKey(t)
	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, true))

	createdAt := time.Now().Unix()
	sig := signAttestation(t, key, 7, 1, "杀青", "", "proof-dup", createdAt)
	_, err := e.attestations.CreateMilestoneAttestation(7, 1, "杀青", "", "proof-dup", createdAt, sig)
	require.NoError(t, err)

	_, err = e.attestations.CreateMilestoneAttestation(7, 1, "杀青", "", "proof-dup", createdAt, sig)
	assert.ErrorIs(t, err, apperr.ErrAttestationExists)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestCreateMilestoneAttestationRejections(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	key, verifierAddr := newVerifierKey(t)
	createdAt := time.Now().Unix()

	t.Run("unauthorized signer", func(t *testing.T) {
		sig := signAttestation(t, key, 7, 0, "开机", "", "proof-1", createdAt)
		_, err := e.attestations.CreateMilestoneAttestation(7, 0, "开机", "", "proof-1", createdAt, sig)
		assert.ErrorIs(t, err, apperr.ErrUnauthorizedVerifier)
	})

	require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, true))

	t.Run("tampered payload recovers wrong signer", func(t *testing.T) {
		sig := signAttestation(t, key, 7, 0, "开机", "", "proof-2", createdAt)
		// 换了proofRef，摘要变化，恢复出的地址不在授权集合内
		_, err := e.attestations.CreateMilestoneAttestation(7, 0, "开机", "", "proof-other", createdAt, sig)
		assert.ErrorIs(t, err, apperr.ErrUnauthorizedVerifier)
	})

	t.Run("garbage signature", func(t *testing.T) {
		_, err := e.attestations.CreateMilestoneAttestation(7, 0, "开机", "", "proof-3", createdAt, []byte{1, 2, 3})
		assert.ErrorIs(t, err, apperr.ErrUnauthorizedVerifier)
	})

	t.Run("revoked verifier", func(t *testing.T) {
		require.NoError(t, e.attestations.AuthorizeVerifier(adminAddr, verifierAddr, false))
		sig := signAttestation(t, key, 7, 0, "开机", "", "proof-4", createdAt)
		_, err := e.attestations.CreateMilestoneAttestation(7, 0, "开机", "", "proof-4", createdAt, sig)
		assert.ErrorIs(t, err, apperr.ErrUnauthorizedVerifier)
	})
}

func TestRecoverSignerVNormalization(t *testing.T) {
	key, addr := newVerifierKey(t)
	digest := AttestDigestV1(1, 0, "t", "d", "p", 1700000000)
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	got, err := RecoverSigner(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	// 以太坊生态常见的 V=27/28 形式同样接受
	shifted := make([]byte, len(sig))
	copy(shifted, sig)
	shifted[crypto.RecoveryIDOffset] += 27
	got, err = RecoverSigner(digest, shifted)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = RecoverSigner(digest, sig[:32])
	assert.Error(t, err)
}

func TestAttestKeyDependsOnTime(t *testing.T) {
	k1 := AttestKeyV1(7, 0, "proof", 1700000000)
	k2 := AttestKeyV1(7, 0, "proof", 1700000001)
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, AttestKeyV1(7, 0, "proof", 1700000000))
}

func TestVerifyPaymentIdempotence(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)
	ref := uniqueRef()

	in := PaymentProofInput{TxRef: ref, Sender: investorAddr, Recipient: adminAddr, Amount: 500}
	require.NoError(t, e.attestations.VerifyPayment(adminAddr, in))

	// 重复登记按设计报错，而不是静默成功
	err := e.attestations.VerifyPayment(adminAddr, in)
	assert.ErrorIs(t, err, apperr.ErrAlreadyVerified)

	ok, err := e.attestations.IsPaymentVerified(ref)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.attestations.IsPaymentVerified("0xnever")
	require.NoError(t, err)
	assert.False(t, ok)

	err = e.attestations.VerifyPayment(strangerAddr, PaymentProofInput{TxRef: uniqueRef()})
	assert.ErrorIs(t, err, apperr.ErrAdminOnly)
}

func TestBatchVerifyPayments(t *testing.T) {
	db := newTestDB(t)
	e := newEngines(db)

	dup := uniqueRef()
	require.NoError(t, e.attestations.VerifyPayment(adminAddr, PaymentProofInput{
		TxRef: dup, Sender: investorAddr, Recipient: adminAddr, Amount: 100,
	}))

	inputs := []PaymentProofInput{
		{TxRef: uniqueRef(), Sender: investorAddr, Recipient: adminAddr, Amount: 200},
		{TxRef: dup, Sender: investorAddr, Recipient: adminAddr, Amount: 100},
		{TxRef: uniqueRef(), Sender: investorB, Recipient: adminAddr, Amount: 300},
	}

	// 批量入口跳过已登记的条目
	stored, err := e.attestations.BatchVerifyPayments(adminAddr, inputs)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	for _, in := range inputs {
		ok, err := e.attestations.IsPaymentVerified(in.TxRef)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
