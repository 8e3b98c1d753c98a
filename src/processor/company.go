// company.go
package processor

import (
	"github.com/go-gota/gota/dataframe"
)

// 平台视角的指标, 每个都是聚合原语的一次参数化调用

// PlatformTotals 首页的平台总量指标
type PlatformTotals struct {
	Restaurants int
	Countries   int
	Cities      int
	Ratings     int
	Cuisines    int
}

// Totals 平台注册总量: 餐厅/国家/城市/评分数/菜系数
func Totals(df dataframe.DataFrame) PlatformTotals {
	ratings := 0
	for _, g := range CountByGroup(df, ColRatingBucket) {
		ratings += g.Count
	}
	return PlatformTotals{
		Restaurants: CountDistinct(df, ColRestaurantID),
		Countries:   CountDistinct(df, ColCountry),
		Cities:      CountDistinct(df, ColCity),
		Ratings:     ratings,
		Cuisines:    CountDistinct(df, ColCuisines),
	}
}

// OrdersPerDay 每日订单量
func OrdersPerDay(df dataframe.DataFrame) []GroupCount {
	return CountByGroup(df, ColOrderDate)
}

// OrdersPerWeek 每周订单量
func OrdersPerWeek(df dataframe.DataFrame) []GroupCount {
	return CountByGroup(df, ColWeekNumber)
}

// TrafficShare 某类交通状况下的订单量及占比
type TrafficShare struct {
	Traffic string
	Count   int
	Share   float64
}

// OrdersByTraffic 订单按交通状况的分布
func OrdersByTraffic(df dataframe.DataFrame) []TrafficShare {
	counts := CountByGroup(df, ColTrafficDensity)

	total := 0
	for _, g := range counts {
		total += g.Count
	}

	out := make([]TrafficShare, 0, len(counts))
	for _, g := range counts {
		share := 0.0
		if total > 0 {
			share = float64(g.Count) / float64(total)
		}
		out = append(out, TrafficShare{Traffic: g.Keys[0], Count: g.Count, Share: share})
	}
	return out
}

// OrdersByCityTraffic 城市x交通状况的订单量对比
func OrdersByCityTraffic(df dataframe.DataFrame) []GroupCount {
	return CountByGroup(df, ColCity, ColTrafficDensity)
}

// OrdersByOrderType 订单按下单类型的分布
func OrdersByOrderType(df dataframe.DataFrame) []GroupCount {
	return CountByGroup(df, ColTypeOfOrder)
}

// OrdersByTrafficCityType 交通状况x城市类型的订单量
func OrdersByTrafficCityType(df dataframe.DataFrame) []GroupCount {
	return CountByGroup(df, ColTrafficDensity, ColCityType)
}

// WeeklyDelivererRate 每周订单量摊到活跃配送员头上的比值
type WeeklyDelivererRate struct {
	Week         string
	Orders       int
	Deliverers   int
	PerDeliverer float64
}

// OrdersPerDelivererPerWeek 每周人均配送单量
func OrdersPerDelivererPerWeek(df dataframe.DataFrame) []WeeklyDelivererRate {
	weeks := CountByGroup(df, ColWeekNumber)
	out := make([]WeeklyDelivererRate, 0, len(weeks))

	for _, w := range weeks {
		view := filterEq(df, ColWeekNumber, w.Keys[0])
		deliverers := CountDistinct(view, ColDelivererID)

		rate := WeeklyDelivererRate{Week: w.Keys[0], Orders: w.Count, Deliverers: deliverers}
		if deliverers > 0 {
			rate.PerDeliverer = float64(w.Count) / float64(deliverers)
		}
		out = append(out, rate)
	}
	return out
}
