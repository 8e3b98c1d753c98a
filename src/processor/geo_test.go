package processor

import (
	"testing"

	"DeliveryInsight/src/config"
)

func TestCityTrafficCentroid(t *testing.T) {
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColCity: "Alpha", ColTrafficDensity: "Jam", ColDeliveryLat: "10", ColDeliveryLon: "20"},
		map[string]string{ColCity: "Alpha", ColTrafficDensity: "Jam", ColDeliveryLat: "20", ColDeliveryLon: "30"},
		map[string]string{ColCity: "Beta", ColTrafficDensity: "Low", ColDeliveryLat: "50", ColDeliveryLon: "60"},
	))

	centroids := CityTrafficCentroids(df)
	if len(centroids) != 2 {
		t.Fatalf("expected 2 centroids, got %d", len(centroids))
	}

	alpha := centroids[0]
	if alpha.City != "Alpha" || alpha.Traffic != "Jam" {
		t.Fatalf("first centroid keys = %+v", alpha)
	}
	// (10,20)和(20,30)的重心是(15,25)
	if alpha.Lat != 15 || alpha.Lon != 25 {
		t.Errorf("centroid = (%v,%v), want (15,25)", alpha.Lat, alpha.Lon)
	}
}

func TestCentroidSkipsMissingCoordinates(t *testing.T) {
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColCity: "Alpha", ColTrafficDensity: "Jam", ColDeliveryLat: "10", ColDeliveryLon: "20"},
		map[string]string{ColCity: "Alpha", ColTrafficDensity: "Jam", ColDeliveryLat: "NaN", ColDeliveryLon: "NaN"},
	))

	centroids := CityTrafficCentroids(df)
	if len(centroids) != 1 {
		t.Fatalf("expected 1 centroid, got %d", len(centroids))
	}
	if centroids[0].Lat != 10 || centroids[0].Lon != 20 {
		t.Errorf("missing coordinates leaked into centroid: %+v", centroids[0])
	}
}

func TestMapPoints(t *testing.T) {
	dcfg := config.DefaultDataConfig()
	cleaned, _ := mustClean(t, rawFrame(t,
		map[string]string{ColRestaurantID: "R1", ColRestaurantName: "Beta House", ColAggregateRating: "4.7", ColAvgCostForTwo: "300"},
		map[string]string{ColRestaurantID: "R2", ColRestaurantName: "Alpha Corner", ColAggregateRating: "2.1", ColAvgCostForTwo: "30"},
		map[string]string{ColRestaurantID: "R2", ColRestaurantName: "Alpha Corner", ColAggregateRating: "2.1"},
		map[string]string{ColRestaurantID: "R3", ColRestaurantName: "No Coords", ColRestaurantLat: "0", ColRestaurantLon: "0"},
	))
	df := Derive(cleaned, dcfg)

	points := MapPoints(df, dcfg.RatingColors)
	// R2只投影一次, R3坐标无效被跳过
	if len(points) != 2 {
		t.Fatalf("expected 2 map points, got %d", len(points))
	}

	if points[0].Name != "Alpha Corner" || points[1].Name != "Beta House" {
		t.Errorf("points not sorted by name: %v, %v", points[0].Name, points[1].Name)
	}
	if points[1].Bucket != BucketExcellent || points[1].Color != "darkgreen" {
		t.Errorf("bucket/color = %s/%s, want excellent/darkgreen", points[1].Bucket, points[1].Color)
	}
	if points[1].PriceTier != "gourmet" {
		t.Errorf("price tier = %s, want gourmet", points[1].PriceTier)
	}
	if points[0].PriceTier != "cheap" {
		t.Errorf("price tier = %s, want cheap", points[0].PriceTier)
	}
}

func TestSemiUrbanNeverLowTrafficPreserved(t *testing.T) {
	// 参考数据的既有性质: Semi-Urban城市不出现Low交通
	// 流水线必须原样保留这个性质, 而不是把它洗没了
	df, _ := mustClean(t, rawFrame(t,
		map[string]string{ColCityType: "Semi-Urban ", ColTrafficDensity: "Jam"},
		map[string]string{ColCityType: "Semi-Urban", ColTrafficDensity: "High"},
		map[string]string{ColCityType: "Urban", ColTrafficDensity: "Low "},
	))

	for _, g := range CountByGroup(df, ColCityType, ColTrafficDensity) {
		if g.Keys[0] == "Semi-Urban" && g.Keys[1] == "Low" {
			t.Errorf("pipeline fabricated a Semi-Urban/Low group: %+v", g)
		}
	}

	// 同时确认Semi-Urban分组本身还在
	groups := CountByGroup(df, ColCityType)
	found := false
	for _, g := range groups {
		if g.Keys[0] == "Semi-Urban" && g.Count == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("Semi-Urban rows lost during cleaning: %+v", groups)
	}
}
