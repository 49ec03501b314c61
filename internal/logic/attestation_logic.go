package logic

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/AnkithSVaidya/CineFlare/internal/apperr"
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/logger"
	"github.com/AnkithSVaidya/CineFlare/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"gorm.io/gorm"
)

// 摘要域分隔前缀。版本号写进摘要本身，任何语言的重实现
// 按同样的字节布局能得到完全一致的摘要。
const (
	attestDigestPrefixV1 = "CINEFLARE_ATTEST_V1"
	attestKeyPrefixV1    = "CINEFLARE_ATTEST_KEY_V1"
)

// AttestationLogic 见证验证器。持有授权见证人集合，
// 验证签名的里程碑见证，并对外部支付凭证做一次性登记。
type AttestationLogic struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAttestationLogic 创建见证验证器
func NewAttestationLogic(db *gorm.DB, cfg *config.Config) *AttestationLogic {
	return &AttestationLogic{db: db, cfg: cfg}
}

// AttestDigestV1 见证签名摘要：keccak256(前缀 || projectId || seq ||
// len(title)||title || len(desc)||desc || len(proofRef)||proofRef || createdAt)。
// 所有整数大端编码，字符串带4字节长度前缀，布局不可更改。
func AttestDigestV1(projectId int64, seq int, title, description, proofRef string, createdAt int64) []byte {
	buf := make([]byte, 0, 64+len(title)+len(description)+len(proofRef))
	buf = append(buf, attestDigestPrefixV1...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(projectId))
	buf = binary.BigEndian.AppendUint32(buf, uint32(seq))
	buf = appendString(buf, title)
	buf = appendString(buf, description)
	buf = appendString(buf, proofRef)
	buf = binary.BigEndian.AppendUint64(buf, uint64(createdAt))
	return crypto.Keccak256(buf)
}

// AttestKeyV1 见证存储键：keccak256(前缀 || projectId || seq ||
// len(proofRef)||proofRef || createdAt)。时间参与计算，
// 相同业务数据在不同时刻产生不同的键。
func AttestKeyV1(projectId int64, seq int, proofRef string, createdAt int64) string {
	buf := make([]byte, 0, 48+len(proofRef))
	buf = append(buf, attestKeyPrefixV1...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(projectId))
	buf = binary.BigEndian.AppendUint32(buf, uint32(seq))
	buf = appendString(buf, proofRef)
	buf = binary.BigEndian.AppendUint64(buf, uint64(createdAt))
	return hexutil.Encode(crypto.Keccak256(buf))
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// AuthorizeVerifier 增删授权见证人，仅管理员
func (l *AttestationLogic) AuthorizeVerifier(caller common.Address, verifier common.Address, allowed bool) error {
	if !l.cfg.Admin.IsAdmin(caller) {
		return apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var v model.VerifierModel
		err := tx.Where("address = ?", verifier).First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.VerifierModel{Address: verifier, Allowed: allowed}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&v).Update("allowed", allowed).Error
	})
}

// IsAuthorizedVerifier 判断地址是否为授权见证人
func (l *AttestationLogic) IsAuthorizedVerifier(addr common.Address) (bool, error) {
	var v model.VerifierModel
	err := l.db.Where("address = ?", addr).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v.Allowed, nil
}

// CreateMilestoneAttestation 登记一条签名的里程碑见证。
// createdAt 由见证人选定并参与签名摘要，必须与签名时一致。
// 从分离签名恢复签名人身份，签名人必须在授权集合内。
// 返回见证键，后续解锁操作凭键查验。
func (l *AttestationLogic) CreateMilestoneAttestation(projectId int64, seq int, title, description, proofRef string, createdAt int64, signature []byte) (string, error) {
	if createdAt <= 0 {
		createdAt = time.Now().Unix()
	}
	digest := AttestDigestV1(projectId, seq, title, description, proofRef, createdAt)

	signer, err := RecoverSigner(digest, signature)
	if err != nil {
		return "", apperr.ErrUnauthorizedVerifier
	}
	allowed, err := l.IsAuthorizedVerifier(signer)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", apperr.ErrUnauthorizedVerifier
	}

	key := AttestKeyV1(projectId, seq, proofRef, createdAt)

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	err = l.db.Transaction(func(tx *gorm.DB) error {
		var existing model.AttestationModel
		err := tx.Where("key = ?", key).First(&existing).Error
		if err == nil {
			return apperr.ErrAttestationExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.AttestationModel{
			Key:          key,
			ProjectId:    projectId,
			MilestoneSeq: seq,
			Title:        title,
			Description:  description,
			ProofRef:     proofRef,
			AttestedAt:   createdAt,
			Verifier:     signer,
			Verified:     true,
		}).Error
	})
	if err != nil {
		return "", err
	}

	logger.Info("Milestone attestation created: project=%d seq=%d verifier=%s", projectId, seq, signer.Hex())
	return key, nil
}

// RecoverSigner 从摘要上的分离签名恢复签名人地址。
// 接受65字节 [R||S||V] 签名，V 为 0/1 或 27/28。
func RecoverSigner(digest []byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errors.New("invalid signature length")
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyMilestoneAttestation 见证键是否对应一条已验证的见证
func (l *AttestationLogic) VerifyMilestoneAttestation(key string) (bool, error) {
	var att model.AttestationModel
	err := l.db.Where("key = ?", key).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return att.Verified && att.Verifier != (common.Address{}), nil
}

// GetAttestation 按键查询见证记录
func (l *AttestationLogic) GetAttestation(key string) (*model.AttestationModel, error) {
	var att model.AttestationModel
	if err := l.db.Where("key = ?", key).First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAttestationNotFound
		}
		return nil, err
	}
	return &att, nil
}

// PaymentProofInput 外部支付凭证输入
type PaymentProofInput struct {
	TxRef        string         `json:"tx_ref"`
	Sender       common.Address `json:"sender"`
	Recipient    common.Address `json:"recipient"`
	Amount       int64          `json:"amount"`
	ExternalTime int64          `json:"external_time"`
	BlockNum     int64          `json:"block_num"`
}

// VerifyPayment 登记一条已验证的外部支付。重复登记是错误而非静默成功，
// 盲目重试在这里按设计失败。仅管理员（链上监听中继以管理员身份写入）。
func (l *AttestationLogic) VerifyPayment(caller common.Address, in PaymentProofInput) error {
	if !l.cfg.Admin.IsAdmin(caller) {
		return apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		return storePaymentProof(tx, in)
	})
}

func storePaymentProof(tx *gorm.DB, in PaymentProofInput) error {
	var existing model.PaymentProofModel
	err := tx.Where("tx_ref = ?", in.TxRef).First(&existing).Error
	if err == nil && existing.Verified {
		return apperr.ErrAlreadyVerified
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&model.PaymentProofModel{
		TxRef:        in.TxRef,
		Sender:       in.Sender,
		Recipient:    in.Recipient,
		Amount:       in.Amount,
		ExternalTime: in.ExternalTime,
		BlockNum:     in.BlockNum,
		Verified:     true,
	}).Error
}

// BatchVerifyPayments 批量登记支付凭证，已验证的条目跳过而不报错。
// 整批在一个事务内提交，任一条目出错则全批回滚。
// 返回本次实际登记的条数。
func (l *AttestationLogic) BatchVerifyPayments(caller common.Address, inputs []PaymentProofInput) (int, error) {
	if !l.cfg.Admin.IsAdmin(caller) {
		return 0, apperr.ErrAdminOnly
	}

	ledgerMu.Lock()
	defer ledgerMu.Unlock()

	stored := 0
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			err := storePaymentProof(tx, in)
			if errors.Is(err, apperr.ErrAlreadyVerified) {
				continue
			}
			if err != nil {
				return err
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// IsPaymentVerified 交易引用是否已有已验证的支付凭证
func (l *AttestationLogic) IsPaymentVerified(txRef string) (bool, error) {
	var proof model.PaymentProofModel
	err := l.db.Where("tx_ref = ?", txRef).First(&proof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return proof.Verified, nil
}
