package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginationClamping(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		pageSize int
		wantPage int
		wantSize int
	}{
		{name: "defaults", page: 0, pageSize: 0, wantPage: 1, wantSize: 10},
		{name: "negative", page: -3, pageSize: -1, wantPage: 1, wantSize: 10},
		{name: "in range", page: 2, pageSize: 25, wantPage: 2, wantSize: 25},
		{name: "at cap", page: 1, pageSize: 100, wantPage: 1, wantSize: 100},
		{name: "over cap", page: 1, pageSize: 101, wantPage: 1, wantSize: 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := PropertySearchQuery{Page: tc.page, PageSize: tc.pageSize}
			page, size := q.Pagination()
			require.Equal(t, tc.wantPage, page)
			require.Equal(t, tc.wantSize, size)
		})
	}
}
