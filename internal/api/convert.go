package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"itemmap/internal/converter"
	"itemmap/internal/mapping"
	"itemmap/internal/remap"
	"itemmap/internal/workbook"
)

// downloadTTL 结果下载令牌有效期，产物文件本身一直保留在 outputs 目录
const downloadTTL = 30 * time.Minute

// maxUploadSize 单个上传文件上限
const maxUploadSize = 50 << 20 // 50MB

// ConvertResponse 转换成功响应
type ConvertResponse struct {
	TotalRows      int    `json:"totalRows"`
	ConvertedCells int    `json:"convertedCells"`
	OutputFile     string `json:"outputFile"`
	DownloadURL    string `json:"downloadUrl"`
}

// Convert 接收源表和映射表，执行 ID→名称 转换
// POST /api/convert
func (h *Handler) Convert(c *gin.Context) {
	srcFile, err := c.FormFile("source")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请提供源文件"})
		return
	}
	mapFile, err := c.FormFile("mapping")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请提供映射文件"})
		return
	}
	if srcFile.Size > maxUploadSize || mapFile.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件超过 50MB 上限"})
		return
	}

	params, err := h.parseConvertParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 上传文件落到 uploads 目录，文件名由服务端生成
	srcPath, err := h.saveUpload(c, srcFile)
	if err != nil {
		h.log.Errorw("save source upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存上传文件失败"})
		return
	}
	mapPath, err := h.saveUpload(c, mapFile)
	if err != nil {
		h.log.Errorw("save mapping upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存上传文件失败"})
		return
	}

	table, err := mapping.Load(mapPath, params.mapping)
	if err != nil {
		h.log.Warnw("load mapping failed", "file", mapFile.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": mappingErrorMessage(err)})
		return
	}

	stem := fileStem(srcFile.Filename)
	outName := fmt.Sprintf("%s_mapped_%s.xlsx", stem, uuid.New().String()[:8])
	outPath := filepath.Join(h.dataDir, "outputs", outName)

	req := params.request
	req.SourcePath = srcPath
	req.Table = table
	req.OutputPath = outPath

	result, err := converter.Convert(req)
	if err != nil {
		h.log.Warnw("convert failed", "file", srcFile.Filename, "error", err)
		if errors.Is(err, workbook.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "源文件不是可识别的 xls/xlsx 工作簿"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "转换失败: " + err.Error()})
		return
	}

	token := h.downloads.put(outPath, stem+"_mapped.xlsx", downloadTTL)

	h.log.Infow("convert done",
		"source", srcFile.Filename,
		"mappingEntries", len(table),
		"totalRows", result.TotalRows,
		"convertedCells", result.ConvertedCells,
		"output", outName,
	)

	c.JSON(http.StatusOK, ConvertResponse{
		TotalRows:      result.TotalRows,
		ConvertedCells: result.ConvertedCells,
		OutputFile:     outName,
		DownloadURL:    "/api/convert/download/" + token,
	})
}

// DownloadResult 按令牌下载转换结果
// GET /api/convert/download/:token
func (h *Handler) DownloadResult(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)
}

// convertParams 解析后的请求参数
type convertParams struct {
	request converter.Request
	mapping mapping.LoadOptions
}

// parseConvertParams 解析表单参数，缺省值来自配置
func (h *Handler) parseConvertParams(c *gin.Context) (*convertParams, error) {
	defaults := h.cfg.Remap

	readCol := strings.TrimSpace(c.DefaultPostForm("readCol", defaults.ReadCol))
	writeCol := strings.TrimSpace(c.DefaultPostForm("writeCol", defaults.WriteCol))
	if readCol == "" || writeCol == "" {
		return nil, errors.New("请指定读取列和回写列")
	}

	srcSheet, err := parseSheetIndex(c.DefaultPostForm("srcSheetIndex", "0"))
	if err != nil {
		return nil, fmt.Errorf("源工作表索引无效: %w", err)
	}
	mapSheet, err := parseSheetIndex(c.DefaultPostForm("mapSheetIndex", "0"))
	if err != nil {
		return nil, fmt.Errorf("映射工作表索引无效: %w", err)
	}

	separator, err := remap.ParseSeparator(c.DefaultPostForm("separator", defaults.Separator))
	if err != nil {
		return nil, err
	}

	prefix := c.DefaultPostForm("prefix", defaults.Prefix)

	opts := remap.Options{
		KeepPrefix: c.PostForm("keepPrefix") == "true" || c.PostForm("keepPrefix") == "on",
		Prefix:     prefix,
		Separator:  separator,
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	idCol := strings.TrimSpace(c.DefaultPostForm("idCol", defaults.IDCol))
	nameCol := strings.TrimSpace(c.DefaultPostForm("nameCol", defaults.NameCol))

	return &convertParams{
		request: converter.Request{
			SheetIndex:  srcSheet,
			ReadColumn:  readCol,
			WriteColumn: writeCol,
			SkipHeader:  c.PostForm("skipHeaderSource") == "true" || c.PostForm("skipHeaderSource") == "on",
			Options:     opts,
		},
		mapping: mapping.LoadOptions{
			SheetIndex: mapSheet,
			IDColumn:   idCol,
			NameColumn: nameCol,
			SkipHeader: c.PostForm("skipHeaderMapping") == "true" || c.PostForm("skipHeaderMapping") == "on",
		},
	}, nil
}

// saveUpload 把上传文件写入 uploads 目录，返回落盘路径
// 文件名前缀 uuid，彻底避开用户文件名里的路径成分
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.New().String()[:8] + "_" + sanitizeFilename(file.Filename)
	dst := filepath.Join(h.dataDir, "uploads", name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// sanitizeFilename 只保留文件名本体，去掉路径分隔符
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" || name == "." || name == ".." {
		name = "upload.xlsx"
	}
	return name
}

// fileStem 去掉扩展名的文件名
func fileStem(name string) string {
	base := sanitizeFilename(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseSheetIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("不能为负数")
	}
	return n, nil
}

// mappingErrorMessage 把映射加载错误转成对用户友好的提示
func mappingErrorMessage(err error) string {
	if errors.Is(err, mapping.ErrNoMappingEntries) {
		return "映射表中没有可用的 ID→名称 条目，请检查列设置"
	}
	if errors.Is(err, workbook.ErrUnsupportedFormat) {
		return "映射文件不是可识别的 xls/xlsx 工作簿"
	}
	return "读取映射表失败: " + err.Error()
}

// contentDisposition 同时给出 filename 与 RFC5987 filename*，兼容中文文件名
func contentDisposition(name string) string {
	escaped := url.PathEscape(name)
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", "result.xlsx", escaped)
}
