package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Data struct {
		RawPath         string   `json:"raw_path"`         // 原始数据文件路径
		ProcessedPath   string   `json:"processed_path"`   // 清洗后数据输出路径
		ExportXLSXPath  string   `json:"export_xlsx_path"` // 下载用的xlsx副本路径
		Delimiter       string   `json:"delimiter"`        // 原始文件分隔符
		SheetName       string   `json:"sheet_name"`       // xlsx数据源的工作表名
		RefreshInterval Duration `json:"refresh_interval"` // 定时重新处理的间隔
	} `json:"data"`

	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`
}

// PriceTiers 菜价分档阈值(两人均价, 含边界)
type PriceTiers struct {
	Cheap     float64 `json:"cheap"`
	Normal    float64 `json:"normal"`
	Expensive float64 `json:"expensive"`
}

// DataConfig 数据字典配置
type DataConfig struct {
	RatingColors    map[string]string `json:"ratingcolors"` // 评分档位 -> 地图标记颜色
	PriceTiers      PriceTiers        `json:"pricetiers"`
	RequiredColumns []string          `json:"requiredcolumns"` // 原始文件必须具备的列
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// DefaultDataConfig 返回内置的数据字典
// dataconfig.json缺项时作为兜底, 测试也直接使用
func DefaultDataConfig() *DataConfig {
	return &DataConfig{
		RatingColors: map[string]string{
			"excellent":     "darkgreen",
			"good":          "green",
			"average":       "orange",
			"below_average": "red",
			"poor":          "darkred",
		},
		PriceTiers: PriceTiers{
			Cheap:     40,
			Normal:    100,
			Expensive: 250,
		},
		RequiredColumns: RawColumns(),
	}
}

// RawColumns 原始文件的列名契约, 重命名即破坏性变更
func RawColumns() []string {
	return []string{
		"restaurant_id", "restaurant_name", "country", "city", "city_type",
		"cuisines", "restaurant_latitude", "restaurant_longitude",
		"delivery_latitude", "delivery_longitude", "average_cost_for_two",
		"currency", "aggregate_rating", "deliverer_id", "deliverer_age",
		"vehicle_condition", "road_traffic_density", "weather_condition",
		"type_of_order", "order_date", "delivery_time_min", "festival",
	}
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (dc *DataConfig) GetRatingColor(bucket string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.RatingColors[bucket]
}

func (dc *DataConfig) SetRatingColor(bucket, color string) {
	mu.Lock()
	defer mu.Unlock()
	dc.RatingColors[bucket] = color
}
