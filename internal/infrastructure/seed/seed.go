// Package seed 启动时从YAML文件导入演示数据
//
// 文件格式：
//
//	books:
//	  - id: 1
//	    title: Dune
//	    author: Frank Herbert
//	    genre: Sci-Fi
//	    price: 9.99
//
// 每条记录都走正常的创建流程（同样的校验、同样的事件），
// 任何一条失败都会中止导入并返回出错的位置。
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xiebiao/bookinventory/internal/domain/book"
)

// File 种子文件结构
type File struct {
	Books []map[string]any `yaml:"books"`
}

// Creator 创建图书（*application/book.CreateBookUseCase实现了它）
type Creator interface {
	Execute(ctx context.Context, payload book.Payload) (*book.Book, error)
}

// Read 解析种子数据
func Read(r io.Reader) ([]book.Payload, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}

	payloads := make([]book.Payload, len(f.Books))
	for i, m := range f.Books {
		payloads[i] = book.Payload(m)
	}
	return payloads, nil
}

// ReadFile 读取种子文件
func ReadFile(path string) ([]book.Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开种子文件失败: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Apply 依次创建图书，返回成功导入的数量
func Apply(ctx context.Context, creator Creator, payloads []book.Payload) (int, error) {
	for i, p := range payloads {
		if _, err := creator.Execute(ctx, p); err != nil {
			return i, fmt.Errorf("导入第%d条种子数据失败: %w", i+1, err)
		}
	}
	return len(payloads), nil
}
