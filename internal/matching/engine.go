package matching

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// DefaultMaxRetries 重抽次数上限
	// 错排概率随 n 增大趋近 1/e，期望重抽约 1.58 次，1000 次上限远超正常需要
	DefaultMaxRetries = 1000
)

var (
	// ErrInsufficientParticipants 参与者不足（少于 2 人无法错排）
	ErrInsufficientParticipants = errors.New("matching: 至少需要 2 名参与者才能抽签")
	// ErrRetryExhausted 重抽次数耗尽，说明随机源异常，属于内部不变量破坏
	ErrRetryExhausted = errors.New("matching: 重抽次数耗尽，随机源可能异常")
)

// Pair 抽签结果中的一组配对（赠送者 -> 接收者）
type Pair struct {
	GiverID    string
	ReceiverID string
}

// IntnFunc 返回 [0, n) 内的随机整数
// 显式注入随机源，测试中可替换为确定性实现
type IntnFunc func(n int) (int, error)

// Engine 抽签引擎
// 无状态、可复用；"每局只能抽一次"由调用方通过 drawn 标志保证
type Engine struct {
	intn       IntnFunc
	maxRetries int
}

// NewEngine 创建使用加密随机源的抽签引擎
func NewEngine() *Engine {
	return NewEngineWithSource(cryptoIntn, DefaultMaxRetries)
}

// NewEngineWithSource 创建使用指定随机源的抽签引擎
func NewEngineWithSource(intn IntnFunc, maxRetries int) *Engine {
	if intn == nil {
		intn = cryptoIntn
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Engine{intn: intn, maxRetries: maxRetries}
}

// Draw 对参与者集合生成均匀随机错排
// 返回的配对覆盖全部输入：每个参与者恰好作为赠送者和接收者各出现一次，
// 且没有人抽到自己
//
// 实现为 Fisher-Yates 洗牌后检查不动点，存在不动点则整体重抽。
// 就地修补不动点会破坏分布均匀性，因此只做整体重抽。
func (e *Engine) Draw(participantIDs []string) ([]Pair, error) {
	n := len(participantIDs)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	shuffled := make([]string, n)
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		copy(shuffled, participantIDs)
		if err := e.shuffle(shuffled); err != nil {
			return nil, err
		}
		if hasFixedPoint(participantIDs, shuffled) {
			continue
		}
		pairs := make([]Pair, n)
		for i := range participantIDs {
			pairs[i] = Pair{GiverID: participantIDs[i], ReceiverID: shuffled[i]}
		}
		return pairs, nil
	}
	return nil, ErrRetryExhausted
}

func (e *Engine) shuffle(ids []string) error {
	for i := len(ids) - 1; i > 0; i-- {
		j, err := e.intn(i + 1)
		if err != nil {
			return err
		}
		ids[i], ids[j] = ids[j], ids[i]
	}
	return nil
}

func hasFixedPoint(original, shuffled []string) bool {
	for i := range original {
		if original[i] == shuffled[i] {
			return true
		}
	}
	return false
}

func cryptoIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
