package remap

import (
	"fmt"
	"strings"
)

// Separator 单元格内分段使用的顶层分隔符
type Separator string

const (
	// SeparatorAmp "&" 分隔，如 "220$1&221$2"
	SeparatorAmp Separator = "&"
	// SeparatorPipe "|" 分隔，如 "7075|80072|523"
	SeparatorPipe Separator = "|"
)

// DefaultPrefix 默认的物品前缀
const DefaultPrefix = "物品="

// Table ID到名称的映射表
// 每次转换请求构建一次，替换过程中只读，可在多个 goroutine 间共享
type Table map[string]string

// Lookup 精确匹配查找，映射名称为空视为未命中
func (t Table) Lookup(id string) (string, bool) {
	name, ok := t[id]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Options 转换选项
type Options struct {
	KeepPrefix bool      // 输出中是否保留前缀
	Prefix     string    // 前缀文本，如 "物品="
	Separator  Separator // 顶层分隔符
}

// DefaultOptions 默认转换选项
func DefaultOptions() Options {
	return Options{
		KeepPrefix: false,
		Prefix:     DefaultPrefix,
		Separator:  SeparatorAmp,
	}
}

// Validate 校验选项合法性
func (o Options) Validate() error {
	switch o.Separator {
	case SeparatorAmp, SeparatorPipe:
		return nil
	default:
		return fmt.Errorf("不支持的分隔符: %q (仅支持 & 或 |)", string(o.Separator))
	}
}

// ParseSeparator 解析分隔符参数
func ParseSeparator(s string) (Separator, error) {
	switch s {
	case "", string(SeparatorAmp):
		return SeparatorAmp, nil
	case string(SeparatorPipe):
		return SeparatorPipe, nil
	default:
		return "", fmt.Errorf("不支持的分隔符: %q (仅支持 & 或 |)", s)
	}
}

// TransformCell 重写一个单元格的文本
//
// 文本按顶层分隔符拆成若干段，每段形如 "<ID组>$<数量>[$<附加>...]"，
// ID组是 "-" 连接的一个或多个子ID。逐个子ID在映射表中精确查找，
// 命中替换为名称，未命中原样保留。首个 "$" 之后的内容原样透传。
//
// 空串、缺少 "$" 的段、连续分隔符产生的空段均按原有结构保留，
// 任何畸形输入最坏也只是原样输出，不会报错。
func TransformCell(text string, table Table, opts Options) string {
	if text == "" {
		return ""
	}

	sep := string(opts.Separator)
	segments := strings.Split(text, sep)
	for i, seg := range segments {
		segments[i] = transformSegment(seg, table, opts)
	}
	return strings.Join(segments, sep)
}

// transformSegment 重写单个段
func transformSegment(seg string, table Table, opts Options) string {
	idPart, rest, hasRest := strings.Cut(seg, "$")

	// 前缀只在ID组之前识别，剥离后视 KeepPrefix 决定是否拼回
	var prefix string
	if opts.Prefix != "" && strings.HasPrefix(idPart, opts.Prefix) {
		prefix = opts.Prefix
		idPart = idPart[len(opts.Prefix):]
	}

	subIDs := strings.Split(idPart, "-")
	for i, sub := range subIDs {
		if name, ok := table.Lookup(sub); ok {
			subIDs[i] = name
		}
	}

	out := strings.Join(subIDs, "-")
	if prefix != "" && opts.KeepPrefix {
		out = prefix + out
	}
	if hasRest {
		out += "$" + rest
	}
	return out
}
