package handlers

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"domisafe/internal/models"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"cleaning", []string{"cleaning"}},
		{"cleaning, cooking ,", []string{"cleaning", "cooking"}},
	}
	for _, tc := range cases {
		if got := splitList(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitList(%q): expected %v got %v", tc.raw, tc.want, got)
		}
	}
}

func TestParseWorkerFilter(t *testing.T) {
	q := url.Values{}
	q.Set("zone", " Palermo ")
	q.Set("services", "cleaning,cooking")
	q.Set("min_rating", "4.5")
	q.Set("latitude", "-34.6")
	q.Set("longitude", "-58.4")

	f, err := parseWorkerFilter(q)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Zone != "Palermo" || len(f.Services) != 2 || *f.MinRating != 4.5 {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f.RadiusKm != nil || f.MaxHourlyRate != nil {
		t.Fatalf("expected absent values to stay nil")
	}

	q.Set("max_hourly_rate", "Inf")
	_, err = parseWorkerFilter(q)
	var filterErr *models.FilterError
	if !errors.As(err, &filterErr) || filterErr.Field != "max_hourly_rate" {
		t.Fatalf("expected max_hourly_rate FilterError, got %v", err)
	}
}
