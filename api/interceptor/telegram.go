package interceptor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"realm/api/model"
)

var ErrInitDataInvalid = errors.New("telegram init data invalid")

// InitDataVerifier 校验 mini-app 的 initData，返回其中签过名的用户
type InitDataVerifier func(initData string) (*model.TelegramUser, error)

// NewInitDataVerifier botToken 为空时返回 nil（不校验，仅限本地开发）
func NewInitDataVerifier(botToken string, maxAge time.Duration) InitDataVerifier {
	if botToken == "" {
		return nil
	}
	return func(initData string) (*model.TelegramUser, error) {
		return VerifyInitData(initData, botToken, maxAge, time.Now())
	}
}

// VerifyInitData 按 Telegram WebApp 规则校验：
// secret = HMAC_SHA256("WebAppData", botToken)，hash = hex(HMAC_SHA256(secret, data_check_string))
func VerifyInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*model.TelegramUser, error) {
	vals, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataInvalid, err)
	}
	hash := vals.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInitDataInvalid)
	}
	if !hmac.Equal([]byte(signInitData(vals, botToken)), []byte(strings.ToLower(hash))) {
		return nil, fmt.Errorf("%w: bad signature", ErrInitDataInvalid)
	}

	if maxAge > 0 {
		ts, err := strconv.ParseInt(vals.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: auth_date", ErrInitDataInvalid)
		}
		if now.Sub(time.Unix(ts, 0)) > maxAge {
			return nil, fmt.Errorf("%w: expired", ErrInitDataInvalid)
		}
	}

	var u model.TelegramUser
	if err := json.Unmarshal([]byte(vals.Get("user")), &u); err != nil || u.ID == 0 {
		return nil, fmt.Errorf("%w: user", ErrInitDataInvalid)
	}
	return &u, nil
}

func signInitData(vals url.Values, botToken string) string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + vals.Get(k)
	}

	key := hmac.New(sha256.New, []byte("WebAppData"))
	key.Write([]byte(botToken))
	mac := hmac.New(sha256.New, key.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
