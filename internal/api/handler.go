// Package api 提供转换、下载、文件管理等 HTTP 接口
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itemmap/internal/config"
	"itemmap/internal/logger"
)

// Handler API 处理器
type Handler struct {
	cfg       *config.AppConfig
	dataDir   string // 解析后的数据目录绝对路径
	downloads *downloadStore
	log       *zap.SugaredLogger
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, dataDir string) *Handler {
	return &Handler{
		cfg:       cfg,
		dataDir:   dataDir,
		downloads: newDownloadStore(),
		log:       logger.S().With("component", "api"),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态与默认参数
	router.GET("/status", h.GetStatus)

	// 转换与结果下载
	router.POST("/convert", h.Convert)
	router.GET("/convert/download/:token", h.DownloadResult)

	// 已存文件管理
	router.GET("/files", h.ListFiles)
	router.GET("/files/:kind/:name", h.DownloadFile)
}
