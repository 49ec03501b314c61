package logic

import "sync"

// ledgerMu 全局执行锁。账本上的每个写操作持锁运行到提交，
// 保证全序和原子性，分配、销毁等资金流动操作全程持锁，防止重入。
var ledgerMu sync.Mutex
