package book

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Payload 客户端提交的原始字段(JSON对象解码后的结果)
// 设计说明:
// 1. 校验层需要区分"字段未出现"和"字段类型错误",所以不直接绑定到结构体
// 2. 数值可能是json.Number(HTTP层用UseNumber解码)、float64或int(YAML种子数据)
type Payload map[string]any

// 字段名(与JSON字段保持一致)
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldGenre     = "genre"
	FieldPrice     = "price"
	FieldCreatedAt = "createdAt"
)

// ValidateCreate 校验创建请求,返回待写入的图书
// 业务规则:
// - id必须是正整数
// - title、author必须是非空字符串
// - genre如果出现必须是字符串,price如果出现必须是非负数
// - 按 id → title → author → genre → price 的顺序报告第一个非法字段
// - 客户端传入的createdAt直接忽略
func ValidateCreate(p Payload) (*Book, error) {
	id, ok := asInt64(p[FieldID])
	if !ok || id <= 0 {
		return nil, InvalidField(FieldID)
	}

	title, ok := asNonEmptyString(p[FieldTitle])
	if !ok {
		return nil, InvalidField(FieldTitle)
	}

	author, ok := asNonEmptyString(p[FieldAuthor])
	if !ok {
		return nil, InvalidField(FieldAuthor)
	}

	b := &Book{ID: id, Title: title, Author: author}

	if raw, present := p[FieldGenre]; present {
		genre, ok := raw.(string)
		if !ok {
			return nil, InvalidField(FieldGenre)
		}
		b.Genre = &genre
	}

	if raw, present := p[FieldPrice]; present {
		price, ok := asPrice(raw)
		if !ok {
			return nil, InvalidField(FieldPrice)
		}
		b.Price = &price
	}

	return b, nil
}

// ValidateUpdate 校验部分更新请求
// 检查顺序(对外可观察,不能随意调整):
// 1. 没有任何可识别字段 → ErrNoUpdateData
// 2. 包含id或createdAt → ErrImmutableFieldUpdate(先于类型检查)
// 3. 类型检查 title → author → genre → price
func ValidateUpdate(p Payload) (Patch, error) {
	var patch Patch

	if !hasAny(p, FieldTitle, FieldAuthor, FieldGenre, FieldPrice, FieldID, FieldCreatedAt) {
		return patch, ErrNoUpdateData
	}

	if hasAny(p, FieldID, FieldCreatedAt) {
		return patch, ErrImmutableFieldUpdate
	}

	if raw, present := p[FieldTitle]; present {
		title, ok := asNonEmptyString(raw)
		if !ok {
			return patch, InvalidField(FieldTitle)
		}
		patch.Title = &title
	}

	if raw, present := p[FieldAuthor]; present {
		author, ok := asNonEmptyString(raw)
		if !ok {
			return patch, InvalidField(FieldAuthor)
		}
		patch.Author = &author
	}

	if raw, present := p[FieldGenre]; present {
		genre, ok := raw.(string)
		if !ok {
			return patch, InvalidField(FieldGenre)
		}
		patch.Genre = &genre
	}

	if raw, present := p[FieldPrice]; present {
		price, ok := asPrice(raw)
		if !ok {
			return patch, InvalidField(FieldPrice)
		}
		patch.Price = &price
	}

	return patch, nil
}

// ParseID 解析路径中的ID
// 非数字、0、负数、小数统一返回ErrInvalidIdentifier
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidIdentifier
	}
	return id, nil
}

// =========================================
// 辅助函数:类型判断
// =========================================

func hasAny(p Payload, fields ...string) bool {
	for _, f := range fields {
		if _, ok := p[f]; ok {
			return true
		}
	}
	return false
}

func asNonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// asNumber 把各种数值表示统一成float64
// 字符串"12"不算数值
func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case uint32:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asInt64 数值且为整数
// 1.0这类小数部分为0的值按整数处理
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}

	f, ok := asNumber(v)
	if !ok || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func asPrice(v any) (float64, bool) {
	f, ok := asNumber(v)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}
