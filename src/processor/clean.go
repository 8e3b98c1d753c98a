// clean.go
package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"DeliveryInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 清洗后数据表的列名, 列名即契约, 改名属于破坏性变更
const (
	ColRestaurantID    = "restaurant_id"
	ColRestaurantName  = "restaurant_name"
	ColCountry         = "country"
	ColCity            = "city"
	ColCityType        = "city_type"
	ColCuisines        = "cuisines"
	ColRestaurantLat   = "restaurant_latitude"
	ColRestaurantLon   = "restaurant_longitude"
	ColDeliveryLat     = "delivery_latitude"
	ColDeliveryLon     = "delivery_longitude"
	ColAvgCostForTwo   = "average_cost_for_two"
	ColCurrency        = "currency"
	ColAggregateRating = "aggregate_rating"
	ColDelivererID     = "deliverer_id"
	ColDelivererAge    = "deliverer_age"
	ColVehicleCond     = "vehicle_condition"
	ColTrafficDensity  = "road_traffic_density"
	ColWeather         = "weather_condition"
	ColTypeOfOrder     = "type_of_order"
	ColOrderDate       = "order_date"
	ColDeliveryTime    = "delivery_time_min"
	ColFestival        = "festival"

	// 派生列
	ColDistanceKm   = "distance_km"
	ColRatingBucket = "rating_bucket"
	ColWeekNumber   = "week_number"
	ColIsWeekend    = "is_weekend"
	ColPriceTier    = "price_tier"
)

// 原始数据里表示缺失的哨兵串, 必须转成显式NA而不是0
const sentinelNaN = "nan"

// 评分有效区间
const (
	ratingMin = 0.0
	ratingMax = 5.0
)

// order_date接受的几种写法, 统一存成canonicalDate
var dateFormats = []string{
	"02-01-2006",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

const canonicalDate = "2006-01-02"

// CleanReport 记录一次清洗的行数与丢弃原因, 供调用方与测试观测
type CleanReport struct {
	RowsIn           int
	RowsKept         int
	DroppedRequired  int // restaurant_id或city缺失
	DroppedBadTime   int // delivery_time_min无法转成数值
	RatingOutOfRange int // 评分超出[0,5], 行保留但评分置NA
	SentinelMissing  int // 哨兵串"NaN"转NA的次数
}

func (r CleanReport) Dropped() int {
	return r.DroppedRequired + r.DroppedBadTime
}

// cases.Caser带内部状态, 不能跨goroutine共用, 每次现取
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Clean 把原始表转成类型化的订单记录表
// 不修改输入, 坏行按策略丢弃并计数, 缺列直接报错
func Clean(raw dataframe.DataFrame) (dataframe.DataFrame, CleanReport, error) {
	report := CleanReport{}

	colIdx := make(map[string]int, len(raw.Names()))
	for i, name := range raw.Names() {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, required := range config.RawColumns() {
		if _, ok := colIdx[required]; !ok {
			return dataframe.DataFrame{}, report, fmt.Errorf("raw table is missing column %q", required)
		}
	}

	records := raw.Records()[1:]
	report.RowsIn = len(records)

	out := newRecordBuilder(len(records))

	for _, row := range records {
		cell := func(name string) string {
			return strings.TrimSpace(row[colIdx[name]])
		}

		restaurantID := cell(ColRestaurantID)
		city := titleCase(cell(ColCity))
		if restaurantID == "" || strings.EqualFold(restaurantID, sentinelNaN) ||
			city == "" || strings.EqualFold(city, sentinelNaN) {
			report.DroppedRequired++
			continue
		}

		deliveryTime, sentinel := parseFloatNA(cell(ColDeliveryTime))
		report.SentinelMissing += sentinel
		if math.IsNaN(deliveryTime) {
			report.DroppedBadTime++
			continue
		}

		rating, sentinel := parseFloatNA(cell(ColAggregateRating))
		report.SentinelMissing += sentinel
		if !math.IsNaN(rating) && (rating < ratingMin || rating > ratingMax) {
			// 超域评分只从评分类聚合里剔除, 行本身保留
			report.RatingOutOfRange++
			rating = math.NaN()
		}

		age, sentinel := parseFloatNA(cell(ColDelivererAge))
		report.SentinelMissing += sentinel

		vehicle, sentinel := parseFloatNA(cell(ColVehicleCond))
		report.SentinelMissing += sentinel

		cost, sentinel := parseFloatNA(cell(ColAvgCostForTwo))
		report.SentinelMissing += sentinel

		out.restaurantID = append(out.restaurantID, restaurantID)
		out.restaurantName = append(out.restaurantName, cell(ColRestaurantName))
		out.country = append(out.country, titleCase(cell(ColCountry)))
		out.city = append(out.city, city)
		out.cityType = append(out.cityType, NormalizeCategory(cell(ColCityType)))
		out.cuisines = append(out.cuisines, PrimaryCuisine(cell(ColCuisines)))
		out.restaurantLat = append(out.restaurantLat, parseCoord(cell(ColRestaurantLat)))
		out.restaurantLon = append(out.restaurantLon, parseCoord(cell(ColRestaurantLon)))
		out.deliveryLat = append(out.deliveryLat, parseCoord(cell(ColDeliveryLat)))
		out.deliveryLon = append(out.deliveryLon, parseCoord(cell(ColDeliveryLon)))
		out.cost = append(out.cost, cost)
		out.currency = append(out.currency, cell(ColCurrency))
		out.rating = append(out.rating, rating)
		out.delivererID = append(out.delivererID, cell(ColDelivererID))
		out.age = append(out.age, age)
		out.vehicle = append(out.vehicle, vehicle)
		out.traffic = append(out.traffic, NormalizeCategory(cell(ColTrafficDensity)))
		out.weather = append(out.weather, NormalizeWeather(cell(ColWeather)))
		out.orderType = append(out.orderType, NormalizeCategory(cell(ColTypeOfOrder)))
		out.orderDate = append(out.orderDate, normalizeDate(cell(ColOrderDate)))
		out.deliveryTime = append(out.deliveryTime, deliveryTime)
		out.festival = append(out.festival, NormalizeCategory(cell(ColFestival)))

		report.RowsKept++
	}

	return out.toDataFrame(), report, nil
}

// NormalizeCategory 规范化分类字段: 去空白, 哨兵串转空, 统一成Title写法
// " low "和"Low"必须归并成同一个分组键
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, sentinelNaN) {
		return ""
	}
	return titleCase(s)
}

// NormalizeWeather 天气字段带有"conditions"前缀, 先剥掉再按分类规范化
func NormalizeWeather(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if rest, ok := strings.CutPrefix(lower, "conditions"); ok {
		s = rest
	}
	return NormalizeCategory(s)
}

// PrimaryCuisine 多值菜系字段收敛规则: 取逗号分隔后的第一个值
// 原始数据把主菜系排在最前, 因此取首值是确定且可复现的
func PrimaryCuisine(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return NormalizeCategory(first)
}

// parseFloatNA 数值转换, 哨兵串与空串转NaN
// 第二个返回值标记本次是否遇到了字面哨兵串
func parseFloatNA(s string) (float64, int) {
	if s == "" {
		return math.NaN(), 0
	}
	if strings.EqualFold(s, sentinelNaN) {
		return math.NaN(), 1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), 0
	}
	return v, 0
}

func parseCoord(s string) float64 {
	v, _ := parseFloatNA(s)
	return v
}

func normalizeDate(s string) string {
	if s == "" || strings.EqualFold(s, sentinelNaN) {
		return ""
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.Format(canonicalDate)
		}
	}
	return ""
}

// recordBuilder 按契约列序累积清洗结果
type recordBuilder struct {
	restaurantID, restaurantName, country, city, cityType, cuisines []string
	restaurantLat, restaurantLon, deliveryLat, deliveryLon          []float64
	cost                                                            []float64
	currency                                                        []string
	rating                                                          []float64
	delivererID                                                     []string
	age, vehicle                                                    []float64
	traffic, weather, orderType, orderDate                          []string
	deliveryTime                                                    []float64
	festival                                                        []string
}

func newRecordBuilder(capacity int) *recordBuilder {
	return &recordBuilder{
		restaurantID: make([]string, 0, capacity),
	}
}

func (b *recordBuilder) toDataFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New(b.restaurantID, series.String, ColRestaurantID),
		series.New(b.restaurantName, series.String, ColRestaurantName),
		series.New(b.country, series.String, ColCountry),
		series.New(b.city, series.String, ColCity),
		series.New(b.cityType, series.String, ColCityType),
		series.New(b.cuisines, series.String, ColCuisines),
		series.New(b.restaurantLat, series.Float, ColRestaurantLat),
		series.New(b.restaurantLon, series.Float, ColRestaurantLon),
		series.New(b.deliveryLat, series.Float, ColDeliveryLat),
		series.New(b.deliveryLon, series.Float, ColDeliveryLon),
		series.New(b.cost, series.Float, ColAvgCostForTwo),
		series.New(b.currency, series.String, ColCurrency),
		series.New(b.rating, series.Float, ColAggregateRating),
		series.New(b.delivererID, series.String, ColDelivererID),
		series.New(b.age, series.Float, ColDelivererAge),
		series.New(b.vehicle, series.Float, ColVehicleCond),
		series.New(b.traffic, series.String, ColTrafficDensity),
		series.New(b.weather, series.String, ColWeather),
		series.New(b.orderType, series.String, ColTypeOfOrder),
		series.New(b.orderDate, series.String, ColOrderDate),
		series.New(b.deliveryTime, series.Float, ColDeliveryTime),
		series.New(b.festival, series.String, ColFestival),
	)
}
