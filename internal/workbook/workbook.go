package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat 文件不是可识别的 xls/xlsx 工作簿
var ErrUnsupportedFormat = errors.New("不支持的文件格式，仅支持 .xls 或 .xlsx")

// Format 工作簿文件格式
type Format int

const (
	FormatUnknown Format = iota
	FormatXLS            // 旧版 BIFF 格式
	FormatXLSX           // OOXML 格式
)

var (
	// zip 头 "PK\x03\x04"，xlsx 本质是 zip 包
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
	// OLE2 复合文档头，旧版 xls 的容器格式
	ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat 根据文件头识别工作簿格式
// 扩展名只是提示，内容签名说了算：改过扩展名的文件按真实字节处理
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil || n < len(zipSignature) {
		return FormatUnknown, ErrUnsupportedFormat
	}
	header = header[:n]

	if bytes.HasPrefix(header, zipSignature) {
		return FormatXLSX, nil
	}
	if bytes.HasPrefix(header, ole2Signature) {
		return FormatXLS, nil
	}
	return FormatUnknown, ErrUnsupportedFormat
}

// ReadRows 读取指定工作表的全部行，单元格统一转为文本
func ReadRows(path string, sheetIndex int) ([][]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return readXLSX(path, sheetIndex)
	case FormatXLS:
		return readXLS(path, sheetIndex)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// readXLSX 通过 excelize 读取现代格式
func readXLSX(path string, sheetIndex int) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开 xlsx 失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, fmt.Errorf("工作表索引 %d 越界，共 %d 个工作表", sheetIndex, len(sheets))
	}

	rows, err := f.GetRows(sheets[sheetIndex])
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %q 失败: %w", sheets[sheetIndex], err)
	}
	return rows, nil
}

// readXLS 通过 xlsReader 读取旧版 BIFF 格式
func readXLS(path string, sheetIndex int) ([][]string, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开 xls 失败: %w", err)
	}

	sh, err := wb.GetSheet(sheetIndex)
	if err != nil {
		return nil, fmt.Errorf("工作表索引 %d 越界: %w", sheetIndex, err)
	}

	var rows [][]string
	for i := 0; i <= sh.GetNumberRows(); i++ {
		r, err := sh.GetRow(i)
		if err != nil {
			continue
		}
		cells := r.GetCols()
		row := make([]string, 0, len(cells))
		for _, c := range cells {
			row = append(row, c.GetString())
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows 将行数据写出为 xlsx 文件（旧格式只读不写）
func WriteRows(rows [][]string, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("定位第 %d 行失败: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存 xlsx 失败: %w", err)
	}
	return nil
}

// ColumnIndex 将列字母（A、B、...、AA）转为0基索引
func ColumnIndex(letter string) (int, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, errors.New("列字母不能为空")
	}
	n, err := excelize.ColumnNameToNumber(letter)
	if err != nil {
		return 0, fmt.Errorf("非法的列字母 %q: %w", letter, err)
	}
	return n - 1, nil
}
