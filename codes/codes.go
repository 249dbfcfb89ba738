package codes

const (
	CODE_SUCCESS = 0

	CODE_ERR_UNKNOWN       = 1000
	CODE_ERR_BAD_PARAMS    = 1001
	CODE_ERR_REQFORMAT     = 1002
	CODE_ERR_SECURITY      = 1003
	CODE_ERR_OBJ_NOT_FOUND = 1004
	CODE_ERR_EXIST_OBJ     = 1005
	CODE_ERR_REPEAT        = 1006
	CODE_ERR_PROCESSING    = 1007
	CODE_ERR_RATE_LIMIT    = 1008

	// 地图
	CODE_ERR_MAP_LOAD = 2001

	// 建造
	CODE_ERR_NOT_BUILDABLE     = 3001
	CODE_ERR_PLACE_CONFLICT    = 3002 // 别人先建了，客户端需要重新选址
	CODE_ERR_INSUFFICIENT_GOLD = 3003
)
