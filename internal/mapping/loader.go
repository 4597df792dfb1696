// Package mapping 从上传的对照表工作簿构建 ID→名称 映射
package mapping

import (
	"errors"
	"fmt"
	"strings"

	"itemmap/internal/remap"
	"itemmap/internal/workbook"
)

// ErrNoMappingEntries 对照表里没有任何可用的 ID→名称 条目
var ErrNoMappingEntries = errors.New("映射表中没有可用的 ID 和名称列")

// LoadOptions 映射表加载选项
type LoadOptions struct {
	SheetIndex int    // 工作表索引，0 基
	IDColumn   string // ID 列字母，默认 A
	NameColumn string // 名称列字母，默认 B
	SkipHeader bool   // 跳过首行表头
}

// DefaultLoadOptions 默认加载选项
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		SheetIndex: 0,
		IDColumn:   "A",
		NameColumn: "B",
		SkipHeader: false,
	}
}

// Load 读取两列对照表，构建映射
//
// ID 和名称都做首尾去空白，ID 为空的行跳过，重复 ID 后者覆盖前者。
// 整表读不出来或一条可用条目都没有时返回错误。
func Load(path string, opts LoadOptions) (remap.Table, error) {
	idIdx, err := workbook.ColumnIndex(opts.IDColumn)
	if err != nil {
		return nil, fmt.Errorf("ID 列无效: %w", err)
	}
	nameIdx, err := workbook.ColumnIndex(opts.NameColumn)
	if err != nil {
		return nil, fmt.Errorf("名称列无效: %w", err)
	}

	rows, err := workbook.ReadRows(path, opts.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("读取映射表失败: %w", err)
	}

	start := 0
	if opts.SkipHeader {
		start = 1
	}

	table := remap.Table{}
	for i := start; i < len(rows); i++ {
		id := strings.TrimSpace(cellAt(rows[i], idIdx))
		if id == "" {
			continue
		}
		table[id] = strings.TrimSpace(cellAt(rows[i], nameIdx))
	}

	if len(table) == 0 {
		return nil, ErrNoMappingEntries
	}
	return table, nil
}

// cellAt 越界取空串
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
