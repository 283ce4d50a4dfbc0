package core

import (
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func TestTripDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "ten day trip", start: "2025-06-01", end: "2025-06-11", want: 10},
		{name: "single day difference", start: "2025-06-01", end: "2025-06-02", want: 1},
		{name: "same instant is zero days", start: "2025-06-01", end: "2025-06-01", want: 0},
		{name: "reversed dates use absolute difference", start: "2025-06-11", end: "2025-06-01", want: 10},
		{name: "across month boundary", start: "2025-06-28", end: "2025-07-03", want: 5},
		{name: "across year boundary", start: "2025-12-30", end: "2026-01-02", want: 3},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got := TripDays(date(t, test.start), date(t, test.end))
			if got != test.want {
				t.Errorf("TripDays(%s, %s) = %d, want %d", test.start, test.end, got, test.want)
			}
		})
	}
}

func TestTripDaysPartialDayRoundsUp(t *testing.T) {
	start := date(t, "2025-06-01")
	end := start.Add(36 * time.Hour)

	if got := TripDays(start, end); got != 2 {
		t.Errorf("a day and a half should round up to 2 days, got %d", got)
	}
}

func TestPricingConfigPrice(t *testing.T) {
	cfg := DefaultPricingConfig()

	tests := []struct {
		name      string
		days      int
		headcount int
		corporate bool
		want      float64
	}{
		{name: "individual trip", days: 10, headcount: 2, corporate: false, want: 100.00},
		{name: "corporate trip gets 25 percent off", days: 10, headcount: 2, corporate: true, want: 75.00},
		{name: "single traveller single day", days: 1, headcount: 1, corporate: false, want: 5.00},
		{name: "zero days is free", days: 0, headcount: 3, corporate: false, want: 0},
		{name: "zero days is free for partners too", days: 0, headcount: 3, corporate: true, want: 0},
		{name: "corporate rounding to cents", days: 1, headcount: 1, corporate: true, want: 3.75},
		{name: "max headcount", days: 7, headcount: 10, corporate: false, want: 350.00},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got := cfg.Price(test.days, test.headcount, test.corporate)
			if got != test.want {
				t.Errorf("Price(%d, %d, %v) = %.2f, want %.2f",
					test.days, test.headcount, test.corporate, got, test.want)
			}
		})
	}
}

func TestPricingConfigPriceCustomRate(t *testing.T) {
	cfg := PricingConfig{DailyRate: 7.5, MaxHeadcount: 10}

	if got := cfg.Price(3, 2, false); got != 45.00 {
		t.Errorf("Price(3, 2, false) = %.2f, want 45.00", got)
	}
	if got := cfg.Price(3, 2, true); got != 33.75 {
		t.Errorf("Price(3, 2, true) = %.2f, want 33.75", got)
	}
}
