package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realm/api/api/common"
	"realm/api/codes"
	"realm/api/log"
	"realm/api/model"
	"realm/api/service"
	"realm/api/service/mappkg"
	"realm/api/service/placement"
)

// OK 成功响应
func OK(c *gin.Context, data interface{}) {
	res := common.NewResponse()
	res.Data = data
	c.JSON(http.StatusOK, res)
}

// Fail 业务错误同样返回 200，由 code 区分
func Fail(c *gin.Context, code int, msg string, data interface{}) {
	res := common.NewResponse()
	res.Code = code
	res.Msg = msg
	res.Data = data
	c.JSON(http.StatusOK, res)
}

// Err 把 service 层错误翻译为错误码
func Err(c *gin.Context, err error) {
	var rej *placement.RejectedError
	switch {
	case errors.As(err, &rej):
		code := codes.CODE_ERR_NOT_BUILDABLE
		if rej.Quote.Reason == model.ReasonInsufficientFunds {
			code = codes.CODE_ERR_INSUFFICIENT_GOLD
		}
		Fail(c, code, rej.Quote.Reason, rej.Quote)
	case errors.Is(err, placement.ErrPersistenceConflict):
		Fail(c, codes.CODE_ERR_PLACE_CONFLICT, "someone else built here first", nil)
	case errors.Is(err, service.ErrInsufficientGold):
		Fail(c, codes.CODE_ERR_INSUFFICIENT_GOLD, err.Error(), nil)
	case errors.Is(err, mappkg.ErrImageLoadFailed),
		errors.Is(err, mappkg.ErrTilesetsNotLoaded):
		Fail(c, codes.CODE_ERR_MAP_LOAD, err.Error(), nil)
	case errors.Is(err, mappkg.ErrMapNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCharacterNotFound),
		errors.Is(err, service.ErrHutNotFound):
		Fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, err.Error(), nil)
	case errors.Is(err, service.ErrCharacterExists):
		Fail(c, codes.CODE_ERR_EXIST_OBJ, err.Error(), nil)
	case errors.Is(err, service.ErrUpgradeMaxed):
		Fail(c, codes.CODE_ERR_REPEAT, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidRace),
		errors.Is(err, service.ErrUnknownCastle),
		errors.Is(err, service.ErrUnknownUpgrade):
		Fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error(), nil)
	default:
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		Fail(c, codes.CODE_ERR_UNKNOWN, "internal error", nil)
	}
}
