package auth

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller"
	"realm/api/codes"
	"realm/api/log"
	"realm/api/model"
)

const sessionStateKey = "app_state"

// LoadState 会话开始时读取；没有或损坏时返回默认值
func LoadState(s sessions.Session) model.AppState {
	st := model.DefaultAppState()
	raw, ok := s.Get(sessionStateKey).(string)
	if !ok || raw == "" {
		return st
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil || !model.ValidView(st.CurrentView) {
		return model.DefaultAppState()
	}
	return st
}

func SaveState(s sessions.Session, st model.AppState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.Set(sessionStateKey, string(b))
	return s.Save()
}

// GET /auth/state
func StateGet(c *gin.Context) {
	controller.OK(c, LoadState(sessions.Default(c)))
}

// POST /auth/state
func StateSave(c *gin.Context) {
	var st model.AppState
	if err := c.ShouldBindJSON(&st); err != nil {
		controller.Fail(c, codes.CODE_ERR_REQFORMAT, "invalid request: "+err.Error(), nil)
		return
	}
	if !model.ValidView(st.CurrentView) {
		controller.Fail(c, codes.CODE_ERR_BAD_PARAMS, "unknown view", nil)
		return
	}
	if err := SaveState(sessions.Default(c), st); err != nil {
		log.Error("save app state error", err)
		controller.Fail(c, codes.CODE_ERR_UNKNOWN, "save state failed", nil)
		return
	}
	controller.OK(c, st)
}
