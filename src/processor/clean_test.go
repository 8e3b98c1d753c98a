package processor

import (
	"testing"

	"DeliveryInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// defaultRow 一条合法订单的默认取值, 测试按需覆盖个别列
func defaultRow() map[string]string {
	return map[string]string{
		ColRestaurantID:    "R001",
		ColRestaurantName:  "Pizza Hub",
		ColCountry:         "Brazil",
		ColCity:            "Sao Paulo",
		ColCityType:        "Urban",
		ColCuisines:        "Italian",
		ColRestaurantLat:   "10.0",
		ColRestaurantLon:   "20.0",
		ColDeliveryLat:     "10.1",
		ColDeliveryLon:     "20.1",
		ColAvgCostForTwo:   "80",
		ColCurrency:        "BRL",
		ColAggregateRating: "4.2",
		ColDelivererID:     "D001",
		ColDelivererAge:    "25",
		ColVehicleCond:     "3",
		ColTrafficDensity:  "Low",
		ColWeather:         "conditions Sunny",
		ColTypeOfOrder:     "Snack",
		ColOrderDate:       "13-03-2022",
		ColDeliveryTime:    "26",
		ColFestival:        "No",
	}
}

// rawFrame 用若干条覆盖后的行拼出原始表
func rawFrame(t *testing.T, overrides ...map[string]string) dataframe.DataFrame {
	t.Helper()

	header := config.RawColumns()
	records := [][]string{header}
	for _, ov := range overrides {
		row := defaultRow()
		for k, v := range ov {
			row[k] = v
		}
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = row[col]
		}
		records = append(records, record)
	}

	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

func mustClean(t *testing.T, raw dataframe.DataFrame) (dataframe.DataFrame, CleanReport) {
	t.Helper()
	df, report, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	return df, report
}

func TestCleanTrafficWhitespaceCollapses(t *testing.T) {
	// " Low "和"Low"必须归并成同一个分组键
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColTrafficDensity: " Low "},
		map[string]string{ColTrafficDensity: "Low"},
	))

	groups := CountByGroup(df, ColTrafficDensity)
	if len(groups) != 1 {
		t.Fatalf("expected 1 traffic group, got %d: %+v", len(groups), groups)
	}
	if groups[0].Keys[0] != "Low" || groups[0].Count != 2 {
		t.Errorf("expected group Low with count 2, got %+v", groups[0])
	}
}

func TestCleanSentinelAgeBecomesNA(t *testing.T) {
	df, report := mustClean(t, rawFrame(t,
		map[string]string{ColDelivererAge: "NaN", ColDelivererID: "D001"},
		map[string]string{ColDelivererAge: "30", ColDelivererID: "D002"},
		map[string]string{ColDelivererAge: "40", ColDelivererID: "D003"},
	))

	if report.SentinelMissing == 0 {
		t.Error("sentinel conversion was not counted")
	}

	// 哨兵行完全不参与年龄统计, 不能被当成0岁
	youngest, oldest, ok := AgeRange(df)
	if !ok {
		t.Fatal("AgeRange returned no result")
	}
	if youngest.Value != 30 {
		t.Errorf("youngest age = %v, want 30", youngest.Value)
	}
	if oldest.Value != 40 {
		t.Errorf("oldest age = %v, want 40", oldest.Value)
	}
	if youngest.Row[ColDelivererID] != "D002" {
		t.Errorf("youngest row deliverer = %s, want D002", youngest.Row[ColDelivererID])
	}
}

func TestCleanDropsRowsMissingRequired(t *testing.T) {
	df, report := mustClean(t, rawFrame(t,
		map[string]string{ColRestaurantID: ""},
		map[string]string{ColCity: "NaN"},
		map[string]string{ColDeliveryTime: "abc"},
		map[string]string{},
	))

	if df.Nrow() != 1 {
		t.Fatalf("expected 1 surviving row, got %d", df.Nrow())
	}
	if report.DroppedRequired != 2 {
		t.Errorf("DroppedRequired = %d, want 2", report.DroppedRequired)
	}
	if report.DroppedBadTime != 1 {
		t.Errorf("DroppedBadTime = %d, want 1", report.DroppedBadTime)
	}
	if report.RowsIn != 4 || report.RowsKept != 1 {
		t.Errorf("RowsIn/RowsKept = %d/%d, want 4/1", report.RowsIn, report.RowsKept)
	}
}

func TestCleanMultiValuedCuisineTakesFirst(t *testing.T) {
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColCuisines: "North Indian, Chinese, Fast Food"},
	))

	got := df.Col(ColCuisines).Elem(0).String()
	if got != "North Indian" {
		t.Errorf("cuisine = %q, want %q", got, "North Indian")
	}
}

func TestCleanWeatherPrefixStripped(t *testing.T) {
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColWeather: "conditions Sandstorms"},
		map[string]string{ColWeather: " Sandstorms "},
	))

	groups := CountByGroup(df, ColWeather)
	if len(groups) != 1 || groups[0].Keys[0] != "Sandstorms" {
		t.Errorf("expected single Sandstorms group, got %+v", groups)
	}
}

func TestCleanOutOfRangeRatingExcludedButRowKept(t *testing.T) {
	df, report := mustClean(t, rawFrame(t,
		map[string]string{ColAggregateRating: "6.5", ColDelivererID: "D100"},
		map[string]string{ColAggregateRating: "4.0", ColDelivererID: "D200"},
	))

	if report.RatingOutOfRange != 1 {
		t.Errorf("RatingOutOfRange = %d, want 1", report.RatingOutOfRange)
	}
	// 行本身保留, 其他指标照常使用
	if df.Nrow() != 2 {
		t.Fatalf("expected both rows kept, got %d", df.Nrow())
	}
	// 评分类聚合只基于范围内的值
	stats := GroupStats(df, ColAggregateRating)
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat group, got %d", len(stats))
	}
	if stats[0].N != 1 || stats[0].Mean != 4.0 {
		t.Errorf("rating stats = %+v, want N=1 Mean=4", stats[0])
	}
}

func TestCleanNormalizesDates(t *testing.T) {
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColOrderDate: "13-03-2022"},
		map[string]string{ColOrderDate: "2022-03-13"},
		map[string]string{ColOrderDate: "not-a-date"},
	))

	dates := df.Col(ColOrderDate).Records()
	if dates[0] != "2022-03-13" || dates[1] != "2022-03-13" {
		t.Errorf("dates not canonical: %v", dates[:2])
	}
	if dates[2] != "" {
		t.Errorf("unparseable date should become empty, got %q", dates[2])
	}
}

func TestCleanMissingColumnFails(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"restaurant_id", "city"},
		{"R001", "Sao Paulo"},
	}, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))

	if _, _, err := Clean(df); err == nil {
		t.Error("expected error for missing contract columns")
	}
}

func TestCleanDeterministic(t *testing.T) {
	raw := rawFrame(t,
		map[string]string{},
		map[string]string{ColRestaurantID: "R002", ColCity: " campinas "},
		map[string]string{ColRestaurantID: "R003", ColDelivererAge: "NaN"},
	)

	first, _ := mustClean(t, raw)
	second, _ := mustClean(t, raw)

	a := Derive(first, config.DefaultDataConfig()).Records()
	b := Derive(second, config.DefaultDataConfig()).Records()

	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("row %d col %d differs: %q vs %q", i, j, a[i][j], b[i][j])
			}
		}
	}
}
