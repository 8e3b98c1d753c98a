// pipeline.go
package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"DeliveryInsight/src/config"
	"DeliveryInsight/src/datasource/file"

	"github.com/go-gota/gota/dataframe"
)

// Process 执行一次完整流水线: 读取 -> 清洗 -> 派生 -> 数据集
// 同一份输入重复执行得到完全相同的数据集; 任何读取失败都向上返回,
// 绝不交出半成品表
func Process(rawPath string, cfg *config.Config, dcfg *config.DataConfig) (*Dataset, CleanReport, error) {
	var (
		raw dataframe.DataFrame
		err error
	)

	if strings.EqualFold(filepath.Ext(rawPath), ".xlsx") {
		raw, err = file.ReadXLSXToDataFrame(rawPath, cfg.Data.SheetName)
	} else {
		raw, err = file.ReadCSVToDataFrame(rawPath, delimiterRune(cfg.Data.Delimiter))
	}
	if err != nil {
		return nil, CleanReport{}, fmt.Errorf("pipeline read failed: %w", err)
	}

	cleaned, report, err := Clean(raw)
	if err != nil {
		return nil, report, fmt.Errorf("pipeline clean failed: %w", err)
	}

	derived := Derive(cleaned, dcfg)

	return NewDataset(derived), report, nil
}

func delimiterRune(s string) rune {
	if s == "" {
		return ','
	}
	return []rune(s)[0]
}
