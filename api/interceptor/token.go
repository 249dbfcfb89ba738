package interceptor

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"realm/api/api/common"
	"realm/api/codes"
	"realm/api/log"
)

const CtxTelegramID = "telegram_id"

// IssueToken 签发 HS256 token，sub 为 telegram id
func IssueToken(secret []byte, telegramID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = common.TOKEN_DURATION
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(telegramID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// TokenInterceptor 校验 Bearer token，把 telegram id 放进 context
func TokenInterceptor(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ah string
		if h, ok := c.Get("HEADERS"); ok {
			ah = h.(common.HeaderParam).Authorization
		} else {
			ah = c.GetHeader("Authorization")
		}
		if !strings.HasPrefix(ah, "Bearer ") {
			makeFaileRes(c, codes.CODE_ERR_SECURITY, "please login")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))

		var claims jwt.RegisteredClaims
		tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
			// 只接受 HS256
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenUnverifiable
			}
			return secret, nil
		})
		if err != nil || !tok.Valid {
			log.Info("token check failed: ", err)
			makeFaileRes(c, codes.CODE_ERR_SECURITY, "token check failed")
			return
		}

		tgID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || tgID == 0 {
			makeFaileRes(c, codes.CODE_ERR_SECURITY, "token format error")
			return
		}
		c.Set(CtxTelegramID, tgID)
		c.Next()
	}
}

func TelegramID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxTelegramID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
