package book

import "strings"

// Filter 列表过滤条件
// 空字符串表示不过滤该字段;多个条件之间是AND关系
type Filter struct {
	Genre  string // 精确匹配,忽略大小写
	Title  string // 子串匹配,忽略大小写
	Author string // 子串匹配,忽略大小写
}

// IsEmpty 是否没有任何过滤条件
func (f Filter) IsEmpty() bool {
	return f.Genre == "" && f.Title == "" && f.Author == ""
}

// Predicate 根据过滤条件构建谓词
func (f Filter) Predicate() Predicate {
	genre := strings.ToLower(f.Genre)
	title := strings.ToLower(f.Title)
	author := strings.ToLower(f.Author)

	return func(b *Book) bool {
		if genre != "" && !genreEquals(b, genre) {
			return false
		}
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			return false
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			return false
		}
		return true
	}
}

// ByGenre 精确匹配genre的谓词(折扣聚合使用)
func ByGenre(genre string) Predicate {
	folded := strings.ToLower(genre)
	return func(b *Book) bool {
		return genreEquals(b, folded)
	}
}

// genreEquals folded必须已经转成小写
// 没有genre的图书永远不匹配
func genreEquals(b *Book, folded string) bool {
	return b.Genre != nil && strings.ToLower(*b.Genre) == folded
}
