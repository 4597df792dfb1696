package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	DataDir     string          `json:"dataDir"`     // 数据目录
	UploadCount int             `json:"uploadCount"` // 已存上传文件数
	OutputCount int             `json:"outputCount"` // 已存结果文件数
	Defaults    DefaultsPayload `json:"defaults"`    // 前端表单默认值
}

// DefaultsPayload 转换参数默认值
type DefaultsPayload struct {
	Prefix    string `json:"prefix"`
	Separator string `json:"separator"`
	ReadCol   string `json:"readCol"`
	WriteCol  string `json:"writeCol"`
	IDCol     string `json:"idCol"`
	NameCol   string `json:"nameCol"`
}

// GetStatus 获取系统状态与默认参数
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	uploads, err := h.listDir("uploads")
	if err != nil {
		uploads = nil
	}
	outputs, err := h.listDir("outputs")
	if err != nil {
		outputs = nil
	}

	c.JSON(http.StatusOK, StatusResponse{
		DataDir:     h.dataDir,
		UploadCount: len(uploads),
		OutputCount: len(outputs),
		Defaults: DefaultsPayload{
			Prefix:    h.cfg.Remap.Prefix,
			Separator: h.cfg.Remap.Separator,
			ReadCol:   h.cfg.Remap.ReadCol,
			WriteCol:  h.cfg.Remap.WriteCol,
			IDCol:     h.cfg.Remap.IDCol,
			NameCol:   h.cfg.Remap.NameCol,
		},
	})
}
