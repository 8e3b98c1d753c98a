// dataset.go
package processor

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// 导出文件用分号分隔
const exportDelimiter = ';'

// Dataset 清洗完成的数据集, 构造后只读
// 所有下游聚合都以它为唯一数据源
type Dataset struct {
	df dataframe.DataFrame
	mu sync.RWMutex
}

func NewDataset(df dataframe.DataFrame) *Dataset {
	return &Dataset{df: df}
}

// Frame 获取底层DataFrame(线程安全, 调用方只读使用)
func (d *Dataset) Frame() dataframe.DataFrame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.df
}

func (d *Dataset) Nrow() int {
	return d.Frame().Nrow()
}

func (d *Dataset) Columns() []string {
	return d.Frame().Names()
}

// FilterCountries 按国家集合过滤, 对应展示层侧边栏的多选过滤器
func (d *Dataset) FilterCountries(countries []string) dataframe.DataFrame {
	return d.Frame().Filter(
		dataframe.F{Colname: ColCountry, Comparator: series.In, Comparando: countries},
	)
}

// FilterFunc 按任意谓词过滤某一列
func (d *Dataset) FilterFunc(col string, pred func(series.Element) bool) dataframe.DataFrame {
	return d.Frame().Filter(
		dataframe.F{Colname: col, Comparator: series.CompFunc, Comparando: pred},
	)
}

// ExportCSV 把整表写成分号分隔文件
// 同一份数据导出结果逐字节一致, 导出再导入不改变任何派生值
func (d *Dataset) ExportCSV(filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV 导出的实际实现
// 浮点列用最短精确表示直接格式化, 不经过DataFrame的打印格式,
// 否则往返一轮会丢精度
func (d *Dataset) WriteCSV(w io.Writer) error {
	df := d.Frame()

	writer := csv.NewWriter(w)
	writer.Comma = exportDelimiter

	names := df.Names()
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	columns := make([][]string, len(names))
	for i, name := range names {
		columns[i] = columnStrings(df, name)
	}

	row := make([]string, len(names))
	for r := 0; r < df.Nrow(); r++ {
		for c := range names {
			row[c] = columns[c][r]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func columnStrings(df dataframe.DataFrame, name string) []string {
	col := df.Col(name)
	if col.Type() != series.Float {
		return col.Records()
	}

	floats := col.Float()
	out := make([]string, len(floats))
	for i, v := range floats {
		if math.IsNaN(v) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

// ExportXLSX 下载用的xlsx副本
func (d *Dataset) ExportXLSX(filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"

	df := d.Frame()
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	columns := make([][]string, len(colNames))
	for i, name := range colNames {
		columns[i] = columnStrings(df, name)
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, columns[colIdx][rowIdx])
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save xlsx file: %w", err)
	}
	return nil
}
