package ingest

import "testing"

func wbWithSheets(names ...string) *Workbook {
	wb := &Workbook{Sheets: make(map[string][][]string)}
	for _, n := range names {
		wb.Sheets[n] = [][]string{}
	}
	return wb
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		sheets []string
		want   string
	}{
		{[]string{SheetPerformance}, FormatPerPost},
		{[]string{SheetTopDemographics}, FormatPerPost},
		{[]string{SheetPerformance, SheetEngagement}, FormatPerPost},
		{[]string{SheetDiscovery}, FormatAggregate},
		{[]string{SheetEngagement, SheetFollowers}, FormatAggregate},
		{[]string{SheetTopPosts}, FormatAggregate},
		{[]string{"SHEET1"}, FormatUnknown},
		{nil, FormatUnknown},
	}
	for _, c := range cases {
		if got := DetectFormat(wbWithSheets(c.sheets...)); got != c.want {
			t.Fatalf("DetectFormat(%v) = %s, want %s", c.sheets, got, c.want)
		}
	}
}
