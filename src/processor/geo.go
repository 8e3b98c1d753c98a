// geo.go
package processor

import (
	"math"
	"sort"

	"DeliveryInsight/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Centroid 一个(城市, 交通状况)组合的中心坐标
// 中心点取该组送达坐标的算术平均
type Centroid struct {
	City    string
	Traffic string
	Lat     float64
	Lon     float64
}

// MapPoint 地图渲染需要的单个餐厅点位
// 只做属性投影, 渲染本身在展示层
type MapPoint struct {
	Name      string
	Lat       float64
	Lon       float64
	PriceTier string
	Cuisine   string
	Currency  string
	Cost      float64
	Rating    float64
	Bucket    string
	Color     string
}

// CityTrafficCentroids 按(city, road_traffic_density)计算送达点重心
// 坐标缺失的行不参与, 结果按键升序
func CityTrafficCentroids(df dataframe.DataFrame) []Centroid {
	groups := groupRows(df, []string{ColCity, ColTrafficDensity})
	if len(groups) == 0 {
		return nil
	}

	lats := df.Col(ColDeliveryLat).Float()
	lons := df.Col(ColDeliveryLon).Float()

	out := make([]Centroid, 0, len(groups))
	for _, g := range groups {
		var groupLats, groupLons []float64
		for _, row := range g.rows {
			if math.IsNaN(lats[row]) || math.IsNaN(lons[row]) {
				continue
			}
			groupLats = append(groupLats, lats[row])
			groupLons = append(groupLons, lons[row])
		}
		if len(groupLats) == 0 {
			continue
		}
		out = append(out, Centroid{
			City:    g.keys[0],
			Traffic: g.keys[1],
			Lat:     stat.Mean(groupLats, nil),
			Lon:     stat.Mean(groupLons, nil),
		})
	}
	return out
}

// MapPoints 投影每家餐厅的点位属性
// 标记颜色由评分档位经数据字典映射得到
func MapPoints(df dataframe.DataFrame, ratingColors map[string]string) []MapPoint {
	if df.Nrow() == 0 || !utils.HasColumn(df, ColRestaurantLat) || !utils.HasColumn(df, ColPriceTier) {
		return nil
	}

	names := df.Col(ColRestaurantName).Records()
	lats := df.Col(ColRestaurantLat).Float()
	lons := df.Col(ColRestaurantLon).Float()
	tiers := df.Col(ColPriceTier).Records()
	cuisines := df.Col(ColCuisines).Records()
	currencies := df.Col(ColCurrency).Records()
	costs := df.Col(ColAvgCostForTwo).Float()
	ratings := df.Col(ColAggregateRating).Float()
	buckets := df.Col(ColRatingBucket).Records()

	seen := make(map[string]struct{})
	restaurantIDs := df.Col(ColRestaurantID).Records()

	var out []MapPoint
	for i := 0; i < df.Nrow(); i++ {
		if !validCoord(lats[i], lons[i]) {
			continue
		}
		// 每家餐厅只投影一次
		if _, ok := seen[restaurantIDs[i]]; ok {
			continue
		}
		seen[restaurantIDs[i]] = struct{}{}

		color := ratingColors[buckets[i]]
		if color == "" {
			color = "gray"
		}
		out = append(out, MapPoint{
			Name:      names[i],
			Lat:       lats[i],
			Lon:       lons[i],
			PriceTier: tiers[i],
			Cuisine:   cuisines[i],
			Currency:  currencies[i],
			Cost:      costs[i],
			Rating:    ratings[i],
			Bucket:    buckets[i],
			Color:     color,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
