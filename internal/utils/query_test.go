package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func paginationFor(t *testing.T, rawQuery string) Pagination {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return ParsePagination(c)
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name     string
		rawQuery string
		want     Pagination
	}{
		{"defaults", "", Pagination{Page: 1, PerPage: 20}},
		{"explicit values", "page=3&per_page=50", Pagination{Page: 3, PerPage: 50}},
		{"per_page at the cap", "per_page=1000", Pagination{Page: 1, PerPage: 1000}},
		{"oversized per_page is capped", "per_page=5000", Pagination{Page: 1, PerPage: MaxPerPage}},
		{"zero per_page falls back", "per_page=0", Pagination{Page: 1, PerPage: 20}},
		{"negative page falls back", "page=-2", Pagination{Page: 1, PerPage: 20}},
		{"non-numeric input falls back", "page=abc&per_page=all", Pagination{Page: 1, PerPage: 20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paginationFor(t, tc.rawQuery); got != tc.want {
				t.Errorf("ParsePagination(%q) = %+v, want %+v", tc.rawQuery, got, tc.want)
			}
		})
	}
}

func TestPaginationSkipLimit(t *testing.T) {
	pg := Pagination{Page: 3, PerPage: 25}
	if pg.Skip() != 50 || pg.Limit() != 25 {
		t.Errorf("Skip = %d, Limit = %d", pg.Skip(), pg.Limit())
	}
}

func TestParseWith(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?with=patient,%20doctor,", nil)
	with := ParseWith(c)
	if !with["patient"] || !with["doctor"] || len(with) != 2 {
		t.Errorf("with = %v", with)
	}
}
