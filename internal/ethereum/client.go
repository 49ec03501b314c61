package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client 募资合约链上客户端，只读，供支付监听中继使用
type Client struct {
	client        *ethclient.Client
	ContractAddr  common.Address
	startBlock    uint64
	confirmations uint64
	contractABI   abi.ABI
}

// 募资合约ABI定义（简化版）
const contractABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "projectId", "type": "uint256"},
			{"indexed": true, "name": "investor", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"},
			{"indexed": false, "name": "price", "type": "uint256"}
		],
		"name": "InvestmentReceived",
		"type": "event"
	}
]`

// InvestmentEvent 解析后的投资事件
type InvestmentEvent struct {
	ProjectId int64
	Investor  common.Address
	Amount    int64
	Price     int64
	TxHash    string
	BlockNum  uint64
	Timestamp int64
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析合约地址
	contractAddr := common.HexToAddress(cfg.ContractAddr)

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return &Client{
		client:        client,
		ContractAddr:  contractAddr,
		startBlock:    cfg.StartBlock,
		confirmations: cfg.Confirmations,
		contractABI:   parsedABI,
	}, nil
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock() (uint64, error) {
	header, err := c.client.HeaderByNumber(context.Background(), nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// ConfirmedBlock 获取已确认高度（最新高度减确认数）
func (c *Client) ConfirmedBlock() (uint64, error) {
	latest, err := c.GetLatestBlock()
	if err != nil {
		return 0, err
	}
	if latest < c.confirmations {
		return 0, nil
	}
	return latest - c.confirmations, nil
}

// GetLogs 获取指定区块范围内的合约日志
func (c *Client) GetLogs(fromBlock, toBlock uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.ContractAddr},
	}

	return c.client.FilterLogs(context.Background(), query)
}

// ParseInvestmentEvent 解析投资事件日志，非投资事件返回nil
func (c *Client) ParseInvestmentEvent(log types.Log) (*InvestmentEvent, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	if log.Topics[0] != c.contractABI.Events["InvestmentReceived"].ID {
		return nil, nil
	}
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("invalid InvestmentReceived event: insufficient topics")
	}

	values, err := c.contractABI.Events["InvestmentReceived"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack InvestmentReceived event: %w", err)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("invalid InvestmentReceived event: insufficient data")
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid amount in InvestmentReceived event")
	}
	price, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid price in InvestmentReceived event")
	}

	return &InvestmentEvent{
		ProjectId: new(big.Int).SetBytes(log.Topics[1].Bytes()).Int64(),
		Investor:  common.BytesToAddress(log.Topics[2].Bytes()),
		Amount:    amount.Int64(),
		Price:     price.Int64(),
		TxHash:    log.TxHash.Hex(),
		BlockNum:  log.BlockNumber,
	}, nil
}

// GetBlockTime 获取区块时间戳
func (c *Client) GetBlockTime(blockNumber uint64) (int64, error) {
	header, err := c.client.HeaderByNumber(context.Background(), new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return 0, err
	}
	return int64(header.Time), nil
}

// StartBlock 配置的起始区块号
func (c *Client) StartBlock() uint64 {
	return c.startBlock
}
