package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"DeliveryInsight/src/config"
	"DeliveryInsight/src/datasource/file"
	"DeliveryInsight/src/processor"
	"DeliveryInsight/src/storage"

	"github.com/robfig/cron"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	cache := storage.NewDatasetCache()
	rawPath := cfg.Data.RawPath

	refresh := func() {
		t1 := time.Now()
		ds, report, err := cache.Get(rawPath, func() (*processor.Dataset, processor.CleanReport, error) {
			return processor.Process(rawPath, cfg, dcfg)
		})
		if err != nil {
			logger.Error("流水线执行失败: " + err.Error())
			return
		}

		logger.Info(fmt.Sprintf("清洗完成: 输入%d行 保留%d行 丢弃%d行 (必填缺失%d, 时长无效%d), 评分超域%d, 哨兵转NA %d次",
			report.RowsIn, report.RowsKept, report.Dropped(),
			report.DroppedRequired, report.DroppedBadTime,
			report.RatingOutOfRange, report.SentinelMissing))

		// 落盘清洗结果, 供展示层下载
		if err := ds.ExportCSV(cfg.Data.ProcessedPath); err != nil {
			logger.Error("导出CSV失败: " + err.Error())
		}
		if err := ds.ExportXLSX(cfg.Data.ExportXLSXPath); err != nil {
			logger.Error("导出XLSX失败: " + err.Error())
		}

		// 记录一份KPI摘要
		df := ds.Frame()
		totals := processor.Totals(df)
		logger.Info(fmt.Sprintf("平台总量: 餐厅%d 国家%d 城市%d 评分%d 菜系%d",
			totals.Restaurants, totals.Countries, totals.Cities, totals.Ratings, totals.Cuisines))
		if mean, ok := processor.MeanDistance(df); ok {
			logger.Info(fmt.Sprintf("平均配送距离: %.2f km", mean))
		}
		logger.Info(fmt.Sprintf("本轮处理耗时: %v", time.Since(t1)))

		logger.CheckRotate(cfg)
	}

	// 首次处理
	refresh()

	// 文件监控: 原始数据被重写时让缓存失效并立即重建
	monitor, err := file.NewFileMonitor(rawPath)
	if err != nil {
		logger.Error("创建文件监控失败: " + err.Error())
	} else {
		defer monitor.Close()
		go func() {
			if err := monitor.Watch(func(path string) {
				logger.Info("检测到数据文件更新: " + path)
				cache.Invalidate()
				refresh()
			}); err != nil {
				logger.Error("文件监控异常退出: " + err.Error())
			}
		}()
	}

	// 定时兜底刷新, 防止监控事件丢失
	c := cron.New()
	interval := time.Duration(cfg.Data.RefreshInterval).String()
	cronSpec := fmt.Sprintf("@every %s", interval)
	if err := c.AddFunc(cronSpec, refresh); err != nil {
		logger.Error("创建定时任务失败: " + err.Error())
		return
	}
	c.Start()
	defer c.Stop()

	logger.Info(fmt.Sprintf("数据流水线已启动(刷新间隔: %v), 按Ctrl+C退出", interval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	file.SetupSignalHandler(cancel)
	<-ctx.Done()
}
