package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestParseAggregateEngagement(t *testing.T) {
	wb := wbWithSheets()
	wb.Sheets[SheetEngagement] = [][]string{
		{"Post Title", "Post Date", "Impressions", "Reactions", "Comments", "Shares", "Clicks"},
		{"Hiring lessons", "2024-03-01", "1,200", "40", "5", "2", "30"},
		{"", "bad date", "10", "1", "0", "0", "0"},
		{"No metrics", "2024-03-02", "", "", "", "", ""},
	}

	result := ParseAggregate(wb)
	if len(result.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(result.Posts))
	}

	first := result.Posts[0]
	if first.Title != "Hiring lessons" || first.Impressions != 1200 || first.Reactions != 40 {
		t.Fatalf("unexpected record: %+v", first)
	}
	wantRate := float64(40+5+2) / 1200
	if first.EngagementRate != wantRate {
		t.Fatalf("engagement rate = %v, want %v", first.EngagementRate, wantRate)
	}

	// 缺指标的行解析为 0，互动率保持 0
	second := result.Posts[1]
	if second.Impressions != 0 || second.EngagementRate != 0 {
		t.Fatalf("unexpected zero-metric record: %+v", second)
	}
}

func TestParseAggregateTopPostsDeduped(t *testing.T) {
	header := []string{"Post Title", "Post Date", "Impressions", "Reactions", "Comments", "Shares", "Clicks"}
	wb := wbWithSheets()
	wb.Sheets[SheetEngagement] = [][]string{
		header,
		{"Shared post", "2024-03-01", "100", "10", "0", "0", "0"},
	}
	wb.Sheets[SheetTopPosts] = [][]string{
		header,
		{"Shared post", "2024-03-01", "100", "10", "0", "0", "0"},
		{"Only in top", "2024-03-02", "500", "25", "3", "1", "0"},
	}

	result := ParseAggregate(wb)
	if len(result.Posts) != 2 {
		t.Fatalf("expected dedup to 2 posts, got %d", len(result.Posts))
	}
	if result.Posts[1].Title != "Only in top" {
		t.Fatalf("unexpected second post: %+v", result.Posts[1])
	}
}

func TestParseAggregateFollowersSkipsZeroTotal(t *testing.T) {
	wb := wbWithSheets()
	wb.Sheets[SheetFollowers] = [][]string{
		{"Date", "Total Followers", "New Followers"},
		{"2024-03-01", "1500", "12"},
		{"2024-03-02", "0", "0"},
		{"2024-03-03", "1520", "20"},
	}

	result := ParseAggregate(wb)
	if len(result.Followers) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(result.Followers))
	}
	if result.Followers[0].TotalFollowers != 1500 || result.Followers[1].NewFollowers != 20 {
		t.Fatalf("unexpected snapshots: %+v", result.Followers)
	}
}

func TestParseAggregateDiscovery(t *testing.T) {
	wb := wbWithSheets()
	wb.Sheets[SheetDiscovery] = [][]string{
		{"Date", "Impressions", "Members reached"},
		{"2024-03-01", "900", "300"},
	}

	result := ParseAggregate(wb)
	if len(result.Daily) != 1 {
		t.Fatalf("expected 1 daily record, got %d", len(result.Daily))
	}
	rec := result.Daily[0]
	if rec.Impressions != 900 || rec.MembersReached != 300 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.MetricDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", rec.MetricDate)
	}
}

func TestParseAggregateDemographicsStructured(t *testing.T) {
	wb := wbWithSheets()
	wb.Sheets[SheetDemographics] = [][]string{
		{"Category", "Value", "Percentage"},
		{"Job title", "Engineer", "0.42"},
		{"", "orphan", "0.1"},
	}

	result := ParseAggregate(wb)
	if len(result.Demographics) != 1 {
		t.Fatalf("expected 1 demographic row, got %d", len(result.Demographics))
	}
	row := result.Demographics[0]
	if row.Category != "job title" || row.Value != "Engineer" || row.Percentage != 0.42 {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestParseAggregateDemographicsBlockHeuristic(t *testing.T) {
	wb := wbWithSheets()
	wb.Sheets[SheetDemographics] = [][]string{
		{"Job Title"},
		{"Engineer", "42%"},
		{"Designer", "18%"},
		{""},
		{"Location"},
		{"Berlin", "30%"},
	}

	result := ParseAggregate(wb)
	if len(result.Demographics) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(result.Demographics), result.Demographics)
	}
	if result.Demographics[0].Category != "job title" || result.Demographics[0].Percentage != 42 {
		t.Fatalf("unexpected first row: %+v", result.Demographics[0])
	}
	if result.Demographics[2].Category != "location" || result.Demographics[2].Value != "Berlin" {
		t.Fatalf("unexpected last row: %+v", result.Demographics[2])
	}
}

func TestParseAggregateMissingSheetsWarn(t *testing.T) {
	wb := wbWithSheets()
	wb.Sheets[SheetEngagement] = [][]string{
		{"Post Title", "Post Date", "Impressions"},
		{"Solo", "2024-03-01", "10"},
	}

	result := ParseAggregate(wb)
	if result.TotalRecords() != 1 {
		t.Fatalf("expected 1 record, got %d", result.TotalRecords())
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warnings for missing sheets")
	}
	joined := strings.Join(result.Warnings, "; ")
	for _, name := range []string{SheetDiscovery, SheetFollowers, SheetDemographics} {
		if !strings.Contains(joined, name) {
			t.Fatalf("expected warning about %s, got: %s", name, joined)
		}
	}
}

func TestParseAggregateTitleTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)
	wb := wbWithSheets()
	wb.Sheets[SheetEngagement] = [][]string{
		{"Post Title", "Post Date", "Impressions"},
		{long, "2024-03-01", "10"},
	}

	result := ParseAggregate(wb)
	if len(result.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(result.Posts))
	}
	if len(result.Posts[0].Title) != maxTitleLength {
		t.Fatalf("title length = %d, want %d", len(result.Posts[0].Title), maxTitleLength)
	}
}
