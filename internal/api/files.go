package api

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// FileInfo 已存文件条目
type FileInfo struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"` // uploads / outputs
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// ListFilesResponse 文件列表响应
type ListFilesResponse struct {
	Uploads []FileInfo `json:"uploads"`
	Outputs []FileInfo `json:"outputs"`
}

// ListFiles 管理视图：列出已存的上传与结果文件
// GET /api/files
func (h *Handler) ListFiles(c *gin.Context) {
	uploads, err := h.listDir("uploads")
	if err != nil {
		h.log.Errorw("list uploads failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件列表失败"})
		return
	}
	outputs, err := h.listDir("outputs")
	if err != nil {
		h.log.Errorw("list outputs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件列表失败"})
		return
	}

	c.JSON(http.StatusOK, ListFilesResponse{
		Uploads: uploads,
		Outputs: outputs,
	})
}

// DownloadFile 下载一个已存文件
// GET /api/files/:kind/:name
func (h *Handler) DownloadFile(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "uploads" && kind != "outputs" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的文件类别"})
		return
	}

	name := c.Param("name")
	// 只接受单层文件名，拦截路径穿越
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法的文件名"})
		return
	}

	path := filepath.Join(h.dataDir, kind, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "文件不存在"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(name))
	c.File(path)
}

// listDir 列出数据目录下某个子目录的文件，按修改时间倒序
func (h *Handler) listDir(kind string) ([]FileInfo, error) {
	dir := filepath.Join(h.dataDir, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    e.Name(),
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}
