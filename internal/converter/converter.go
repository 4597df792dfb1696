// Package converter 串起一次转换请求：读源表、逐格重写、写出结果
package converter

import (
	"fmt"

	"itemmap/internal/remap"
	"itemmap/internal/workbook"
)

// Request 一次转换请求的全部输入
// 映射表和选项在整个请求内共享，不跨请求保留任何状态
type Request struct {
	SourcePath  string // 源工作簿路径
	SheetIndex  int    // 源工作表索引，0 基
	ReadColumn  string // 读取列字母
	WriteColumn string // 回写列字母
	SkipHeader  bool   // 跳过源表首行

	Table   remap.Table   // ID→名称 映射
	Options remap.Options // 转换选项

	OutputPath string // 输出 xlsx 路径
}

// Result 转换结果统计
type Result struct {
	TotalRows      int    `json:"totalRows"`      // 源表总行数
	ConvertedCells int    `json:"convertedCells"` // 实际重写的单元格数
	OutputPath     string `json:"-"`              // 输出文件路径
}

// Convert 执行转换
//
// 所有行原样搬到输出，目标列的非空单元格经过重写后写入回写列。
// 单元格内容再畸形也不会中断整个转换，只有文件级错误才会失败。
func Convert(req Request) (*Result, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	readIdx, err := workbook.ColumnIndex(req.ReadColumn)
	if err != nil {
		return nil, fmt.Errorf("读取列无效: %w", err)
	}
	writeIdx, err := workbook.ColumnIndex(req.WriteColumn)
	if err != nil {
		return nil, fmt.Errorf("回写列无效: %w", err)
	}

	rows, err := workbook.ReadRows(req.SourcePath, req.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("读取源文件失败: %w", err)
	}

	start := 0
	if req.SkipHeader {
		start = 1
	}

	converted := 0
	for r := start; r < len(rows); r++ {
		row := rows[r]
		if readIdx >= len(row) {
			continue
		}
		val := row[readIdx]
		if val == "" {
			continue
		}

		newText := remap.TransformCell(val, req.Table, req.Options)

		// 回写列可能超出当前行宽，先补齐空单元格
		for len(row) <= writeIdx {
			row = append(row, "")
		}
		row[writeIdx] = newText
		rows[r] = row
		converted++
	}

	if err := workbook.WriteRows(rows, req.OutputPath); err != nil {
		return nil, fmt.Errorf("写出结果失败: %w", err)
	}

	return &Result{
		TotalRows:      len(rows),
		ConvertedCells: converted,
		OutputPath:     req.OutputPath,
	}, nil
}
