package service

import (
	"Beacon/internal/ingest"
	"Beacon/internal/model"
	"Beacon/internal/pkg/database"
	"Beacon/internal/pkg/util"
	"Beacon/internal/repository"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = database.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func writeEngagementCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engagement.csv")
	content := "Post Title,Post Date,Impressions,Reactions,Comments,Shares,Clicks\n" + rows
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestFileCreatesPostsAndUploadRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db).(*ingestServiceImpl)
	ctx := context.Background()

	path := writeEngagementCSV(t, "Hiring lessons,2024-03-01,1200,40,5,2,30\n")
	result, err := svc.IngestFile(ctx, path, "export.csv")
	if err != nil {
		t.Fatal(err)
	}
	if result.Format != ingest.FormatAggregate {
		t.Fatalf("format = %s", result.Format)
	}
	if result.Stats.PostsCreated != 1 || result.Stats.PostsUpdated != 0 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}

	post, err := repository.NewPostRepository(db).FindByDateTitle(ctx, day("2024-03-01"), "Hiring lessons")
	if err != nil || post == nil {
		t.Fatalf("post not found: %v", err)
	}
	if post.Reactions != 40 || post.Status != "" {
		t.Fatalf("unexpected post: %+v", post)
	}

	upload, err := repository.NewUploadRepository(db).FindByHash(ctx, mustHash(t, path))
	if err != nil || upload == nil {
		t.Fatalf("upload row not recorded: %v", err)
	}
	if upload.Status != model.UploadStatusCompleted {
		t.Fatalf("upload status = %s", upload.Status)
	}
}

func mustHash(t *testing.T, path string) string {
	t.Helper()
	h, err := util.FileSHA256(path)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestIngestFileDuplicateHashRejectedBeforeParsing(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db)
	ctx := context.Background()

	path := writeEngagementCSV(t, "Hiring lessons,2024-03-01,1200,40,5,2,30\n")
	if _, err := svc.IngestFile(ctx, path, "export.csv"); err != nil {
		t.Fatal(err)
	}

	// 同内容另存一份，哈希相同
	dup := filepath.Join(t.TempDir(), "engagement.csv")
	raw, _ := os.ReadFile(path)
	if err := os.WriteFile(dup, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := svc.IngestFile(ctx, dup, "export-again.csv")
	if !errors.Is(err, ErrDuplicateFile) {
		t.Fatalf("expected ErrDuplicateFile, got %v", err)
	}

	var count int64
	db.Model(&model.Post{}).Count(&count)
	if count != 1 {
		t.Fatalf("duplicate import must not write, posts = %d", count)
	}
}

func TestIngestFileUnknownFormat(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db)

	path := filepath.Join(t.TempDir(), "random.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := svc.IngestFile(context.Background(), path, "random.csv")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}

	var count int64
	db.Model(&model.Upload{}).Count(&count)
	if count != 0 {
		t.Fatalf("unknown format must not record upload, got %d", count)
	}
}

func TestIngestFileNoUsableRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db)

	// 表头正确但没有一行能解析出日期
	path := writeEngagementCSV(t, "Broken,not-a-date,10,1,0,0,0\n")
	_, err := svc.IngestFile(context.Background(), path, "export.csv")
	if !errors.Is(err, ErrNoUsableRecords) {
		t.Fatalf("expected ErrNoUsableRecords, got %v", err)
	}
}

// 累计计数只增不减：重复导入较小的值不能回退已知的更大值
func TestMergePostRecordMaxMerge(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db).(*ingestServiceImpl)
	postRepo := repository.NewPostRepository(db)
	ctx := context.Background()

	rec := ingest.PostRecord{Title: "T", PostDate: day("2024-03-01"), Impressions: 1000, Reactions: 40}
	if _, err := svc.mergePostRecord(ctx, postRepo, &rec); err != nil {
		t.Fatal(err)
	}

	stale := ingest.PostRecord{Title: "T", PostDate: day("2024-03-01"), Impressions: 900, Reactions: 25}
	created, err := svc.mergePostRecord(ctx, postRepo, &stale)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("expected match, not insert")
	}

	post, _ := postRepo.FindByDateTitle(ctx, day("2024-03-01"), "T")
	if post.Impressions != 1000 || post.Reactions != 40 {
		t.Fatalf("counters regressed: %+v", post)
	}

	fresh := ingest.PostRecord{Title: "T", PostDate: day("2024-03-01"), Impressions: 1500, Reactions: 60}
	if _, err = svc.mergePostRecord(ctx, postRepo, &fresh); err != nil {
		t.Fatal(err)
	}
	post, _ = postRepo.FindByDateTitle(ctx, day("2024-03-01"), "T")
	if post.Impressions != 1500 || post.Reactions != 60 {
		t.Fatalf("larger incoming values must win: %+v", post)
	}
	wantRate := float64(60) / 1500
	if post.EngagementRate != wantRate {
		t.Fatalf("engagement rate not recomputed: %v", post.EngagementRate)
	}
}

// 匹配优先级：外部标识 > 日期+标题 > 仅日期（无标题行）
func TestFindMatchingPostPriority(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db).(*ingestServiceImpl)
	postRepo := repository.NewPostRepository(db)
	ctx := context.Background()

	byID := &model.Post{LinkedInPostID: util.PtrString("111"), Title: util.PtrString("A"), PostDate: day("2024-01-01")}
	untitled := &model.Post{PostDate: day("2024-02-01")}
	if err := postRepo.CreatePost(ctx, byID); err != nil {
		t.Fatal(err)
	}
	if err := postRepo.CreatePost(ctx, untitled); err != nil {
		t.Fatal(err)
	}

	// 标识命中时日期标题都不参与
	got, err := svc.findMatchingPost(ctx, postRepo, "111", day("2099-01-01"), "other")
	if err != nil || got == nil || got.ID != byID.ID {
		t.Fatalf("expected match by id, got %+v err=%v", got, err)
	}

	// 日期+标题命中
	got, err = svc.findMatchingPost(ctx, postRepo, "", day("2024-01-01"), "A")
	if err != nil || got == nil || got.ID != byID.ID {
		t.Fatalf("expected match by date+title, got %+v err=%v", got, err)
	}

	// 仅日期兜底只命中无标题行
	got, err = svc.findMatchingPost(ctx, postRepo, "", day("2024-02-01"), "")
	if err != nil || got == nil || got.ID != untitled.ID {
		t.Fatalf("expected date-only match, got %+v err=%v", got, err)
	}

	got, err = svc.findMatchingPost(ctx, postRepo, "", day("2099-12-31"), "")
	if err != nil || got != nil {
		t.Fatalf("expected no match, got %+v err=%v", got, err)
	}
}

// 已发布帖子首次被导出数据命中后标记 analytics_linked，纯导入状态不变
func TestStatusTransitionOnMerge(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db).(*ingestServiceImpl)
	postRepo := repository.NewPostRepository(db)
	ctx := context.Background()

	published := &model.Post{
		LinkedInPostID: util.PtrString("222"),
		PostDate:       day("2024-03-01"),
		Status:         model.PostStatusPublished,
		Content:        "original text",
	}
	if err := postRepo.CreatePost(ctx, published); err != nil {
		t.Fatal(err)
	}

	rec := ingest.PostRecord{LinkedInPostID: "222", PostDate: day("2024-03-01"), Impressions: 100, Reactions: 10}
	if _, err := svc.mergePostRecord(ctx, postRepo, &rec); err != nil {
		t.Fatal(err)
	}

	got, _ := postRepo.FindByLinkedInID(ctx, "222")
	if got.Status != model.PostStatusAnalyticsLinked {
		t.Fatalf("status = %q, want analytics_linked", got.Status)
	}
	if got.Content != "original text" {
		t.Fatal("import must never overwrite content")
	}

	// 再次合并状态保持不变
	if _, err := svc.mergePostRecord(ctx, postRepo, &rec); err != nil {
		t.Fatal(err)
	}
	got, _ = postRepo.FindByLinkedInID(ctx, "222")
	if got.Status != model.PostStatusAnalyticsLinked {
		t.Fatalf("status = %q after re-merge", got.Status)
	}
}

func TestMergePerPostAttachesIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db).(*ingestServiceImpl)
	postRepo := repository.NewPostRepository(db)
	ctx := context.Background()

	// 聚合导入先建了无标识的行
	existing := &model.Post{PostDate: day("2024-03-10"), Impressions: 500, Reactions: 40}
	if err := postRepo.CreatePost(ctx, existing); err != nil {
		t.Fatal(err)
	}

	hour := 14
	parsed := &ingest.PerPostExport{
		LinkedInPostID: "333",
		PostURL:        "https://www.linkedin.com/feed/update/urn:li:activity:333/",
		PostDate:       day("2024-03-10"),
		HasPostDate:    true,
		PostHour:       &hour,
		Impressions:    450, // 较小值不回退
		Reactions:      55,
		Saves:          12,
		Demographics: []ingest.DemographicRecord{
			{Category: "job_title", Value: "Engineer", Percentage: 0.4},
		},
	}

	stats, err := svc.mergePerPost(ctx, db, parsed)
	if err != nil {
		t.Fatal(err)
	}
	if stats.PostsUpdated != 1 || stats.PostsCreated != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	got, _ := postRepo.FindByLinkedInID(ctx, "333")
	if got == nil || got.ID != existing.ID {
		t.Fatalf("expected identity attached to existing row, got %+v", got)
	}
	if got.Impressions != 500 || got.Reactions != 55 || got.Saves != 12 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.PostHour == nil || *got.PostHour != 14 {
		t.Fatalf("post hour not filled: %v", got.PostHour)
	}

	rows, err := repository.NewSnapshotRepository(db).ListPostDemographics(ctx, got.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 demographic row, got %d err=%v", len(rows), err)
	}

	// 重复导入覆盖画像而非累加
	parsed.Demographics[0].Percentage = 0.5
	if _, err = svc.mergePerPost(ctx, db, parsed); err != nil {
		t.Fatal(err)
	}
	rows, _ = repository.NewSnapshotRepository(db).ListPostDemographics(ctx, got.ID)
	if len(rows) != 1 || rows[0].Percentage != 0.5 {
		t.Fatalf("expected replaced percentage, got %+v", rows)
	}
}

func TestMergeDailyAndFollowerRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db).(*ingestServiceImpl)
	metricRepo := repository.NewDailyMetricRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	ctx := context.Background()

	daily := ingest.DailyRecord{MetricDate: day("2024-03-01"), Impressions: 900}
	if err := svc.mergeDailyRecord(ctx, metricRepo, &daily); err != nil {
		t.Fatal(err)
	}
	smaller := ingest.DailyRecord{MetricDate: day("2024-03-01"), Impressions: 700, Comments: 3}
	if err := svc.mergeDailyRecord(ctx, metricRepo, &smaller); err != nil {
		t.Fatal(err)
	}

	m, _ := metricRepo.FindChannelMetric(ctx, day("2024-03-01"))
	if m.Impressions != 900 || m.Comments != 3 {
		t.Fatalf("daily max-merge failed: %+v", m)
	}

	// 粉丝快照是时点值，后到覆盖
	f1 := ingest.FollowerRecord{SnapshotDate: day("2024-03-01"), TotalFollowers: 1500, NewFollowers: 10}
	f2 := ingest.FollowerRecord{SnapshotDate: day("2024-03-01"), TotalFollowers: 1490, NewFollowers: 8}
	if err := svc.mergeFollowerRecord(ctx, snapshotRepo, &f1); err != nil {
		t.Fatal(err)
	}
	if err := svc.mergeFollowerRecord(ctx, snapshotRepo, &f2); err != nil {
		t.Fatal(err)
	}
	snap, _ := snapshotRepo.FindFollowerSnapshot(ctx, day("2024-03-01"))
	if snap.TotalFollowers != 1490 || snap.NewFollowers != 8 {
		t.Fatalf("snapshot not replaced: %+v", snap)
	}
}

func TestIngestBatchIsolatesFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngestService(db)
	ctx := context.Background()

	good := writeEngagementCSV(t, "Post,2024-03-01,100,5,0,0,0\n")
	bad := filepath.Join(t.TempDir(), "random.csv")
	if err := os.WriteFile(bad, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := svc.IngestBatch(ctx, []SavedFile{
		{Path: bad, Filename: "bad.csv"},
		{Path: good, Filename: "good.csv"},
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != "failed" || results[0].Error == "" {
		t.Fatalf("expected first failed: %+v", results[0])
	}
	if results[1].Status != "success" {
		t.Fatalf("expected second success: %+v", results[1])
	}
}
