// derive.go
package processor

import (
	"fmt"
	"math"
	"time"

	"DeliveryInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/umahmood/haversine"
)

// 评分分档边界, 业务固定值
const (
	BucketExcellent    = "excellent"     // >= 4.5
	BucketGood         = "good"          // >= 4.0
	BucketAverage      = "average"       // >= 3.5
	BucketBelowAverage = "below_average" // >= 3.0
	BucketPoor         = "poor"
)

// Derive 在清洗后的表上追加派生列
// 纯函数: 只依据行内原始列计算, 不修改输入表
func Derive(df dataframe.DataFrame, dcfg *config.DataConfig) dataframe.DataFrame {
	n := df.Nrow()

	restaurantLat := df.Col(ColRestaurantLat).Float()
	restaurantLon := df.Col(ColRestaurantLon).Float()
	deliveryLat := df.Col(ColDeliveryLat).Float()
	deliveryLon := df.Col(ColDeliveryLon).Float()
	rating := df.Col(ColAggregateRating).Float()
	cost := df.Col(ColAvgCostForTwo).Float()
	orderDate := df.Col(ColOrderDate).Records()

	distance := make([]float64, n)
	bucket := make([]string, n)
	week := make([]string, n)
	weekend := make([]string, n)
	tier := make([]string, n)

	for i := 0; i < n; i++ {
		distance[i] = distanceKm(restaurantLat[i], restaurantLon[i], deliveryLat[i], deliveryLon[i])
		bucket[i] = RatingBucket(rating[i])
		tier[i] = PriceTier(cost[i], dcfg.PriceTiers)

		if t, err := time.Parse(canonicalDate, orderDate[i]); err == nil {
			week[i] = WeekKey(t)
			weekend[i] = weekendFlag(t)
		}
	}

	return df.
		Mutate(series.New(distance, series.Float, ColDistanceKm)).
		Mutate(series.New(bucket, series.String, ColRatingBucket)).
		Mutate(series.New(week, series.String, ColWeekNumber)).
		Mutate(series.New(weekend, series.String, ColIsWeekend)).
		Mutate(series.New(tier, series.String, ColPriceTier))
}

// distanceKm 餐厅到送达点的大圆距离(公里)
// 任一端坐标缺失或为(0,0)时视为无效, 返回NaN而不是0
func distanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if !validCoord(lat1, lon1) || !validCoord(lat2, lon2) {
		return math.NaN()
	}
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lon1},
		haversine.Coord{Lat: lat2, Lon: lon2},
	)
	return km
}

func validCoord(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	// (0,0)在这份数据里只会是占位符
	if lat == 0 && lon == 0 {
		return false
	}
	return true
}

// RatingBucket 把评分映射到固定档位, 边界取等号: 4.5属于excellent
func RatingBucket(rating float64) string {
	if math.IsNaN(rating) || rating < ratingMin || rating > ratingMax {
		return ""
	}
	switch {
	case rating >= 4.5:
		return BucketExcellent
	case rating >= 4.0:
		return BucketGood
	case rating >= 3.5:
		return BucketAverage
	case rating >= 3.0:
		return BucketBelowAverage
	default:
		return BucketPoor
	}
}

// WeekKey ISO 8601周编号, 同一自然周的日期得到同一个键
// 带年份前缀, 跨年的周不会互相混淆
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func weekendFlag(t time.Time) string {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return "Yes"
	default:
		return "No"
	}
}

// PriceTier 按两人均价分档, 阈值来自数据字典配置
func PriceTier(cost float64, tiers config.PriceTiers) string {
	if math.IsNaN(cost) || cost < 0 {
		return ""
	}
	switch {
	case cost <= tiers.Cheap:
		return "cheap"
	case cost <= tiers.Normal:
		return "normal"
	case cost <= tiers.Expensive:
		return "expensive"
	default:
		return "gourmet"
	}
}
