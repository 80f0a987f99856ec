package token

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// AccessTokenLength 访问令牌长度（62 进制下约 190 位熵）
	AccessTokenLength = 32
	// accessTokenAlphabet 访问令牌字符表
	accessTokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// NewID 生成全局唯一且大致按时间排序的标识符（UUIDv7）
// 可安全暴露在 URL 中，不携带敏感信息
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// 随机源不可用属于不可恢复故障，宁可崩溃也不能发弱标识
		panic(fmt.Errorf("生成标识符失败: %w", err))
	}
	return id.String()
}

// NewAccessToken 生成定长高熵访问令牌（admin_token / view_token）
func NewAccessToken() string {
	var b strings.Builder
	b.Grow(AccessTokenLength)
	max := big.NewInt(int64(len(accessTokenAlphabet)))
	for i := 0; i < AccessTokenLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Errorf("生成访问令牌失败: %w", err))
		}
		b.WriteByte(accessTokenAlphabet[n.Int64()])
	}
	return b.String()
}

// NewVerifyCode 生成定宽数字验证码
// 验证码仅在单个验证请求内有效，允许跨请求重复
func NewVerifyCode(length int) (string, error) {
	if length < 4 || length > 10 {
		length = 6
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}

// Equal 常量时间比较令牌或验证码，避免时序侧信道
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
