// cache.go
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"DeliveryInsight/src/processor"
)

// DatasetCache 按原始文件校验和缓存流水线结果
// 展示层每次交互都会要数据, 输入没变就不重跑流水线;
// 键是文件内容的md5, 不是模块级的隐式全局状态
type DatasetCache struct {
	mu       sync.Mutex
	checksum string
	dataset  *processor.Dataset
	report   processor.CleanReport
}

func NewDatasetCache() *DatasetCache {
	return &DatasetCache{}
}

// FileChecksum 计算文件内容的md5摘要
func FileChecksum(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file for checksum: %w", err)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get 返回缓存的数据集, 输入变化时用build重建
// build失败时保留旧缓存不动, 错误原样上抛
func (c *DatasetCache) Get(rawPath string, build func() (*processor.Dataset, processor.CleanReport, error)) (*processor.Dataset, processor.CleanReport, error) {
	checksum, err := FileChecksum(rawPath)
	if err != nil {
		return nil, processor.CleanReport{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dataset != nil && c.checksum == checksum {
		return c.dataset, c.report, nil
	}

	ds, report, err := build()
	if err != nil {
		return nil, report, err
	}

	c.checksum = checksum
	c.dataset = ds
	c.report = report
	return ds, report, nil
}

// Invalidate 清空缓存, 文件监控发现输入被重写时调用
func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checksum = ""
	c.dataset = nil
	c.report = processor.CleanReport{}
}
