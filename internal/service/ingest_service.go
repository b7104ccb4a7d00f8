package service

import (
	"Beacon/internal/api/dto"
	"Beacon/internal/ingest"
	"Beacon/internal/model"
	"Beacon/internal/pkg/util"
	"Beacon/internal/repository"
	"context"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

type IngestService interface {
	// IngestFile 导入单个导出文件：去重、解析、合并入库
	IngestFile(ctx context.Context, path, originalFilename string) (*dto.UploadResultDTO, error)
	// IngestBatch 批量导入多个文件，单个失败不中断整批
	IngestBatch(ctx context.Context, files []SavedFile) []*dto.BatchItemDTO
	// ListUploads 上传历史
	ListUploads(ctx context.Context, limit int) ([]*dto.UploadHistoryDTO, error)
}

// SavedFile 已落盘的上传文件
type SavedFile struct {
	Path     string
	Filename string
}

// 持有 *gorm.DB 而非固定仓储实例：合并必须整体成败，
// 事务内用 tx 重建仓储，事务外查询用原连接
type ingestServiceImpl struct {
	db *gorm.DB
}

func NewIngestService(db *gorm.DB) IngestService {
	return &ingestServiceImpl{db: db}
}

// IngestFile 实现。合并顺序：哈希防重 -> 解析 -> 单事务合并 -> 记录上传
func (s *ingestServiceImpl) IngestFile(ctx context.Context, path, originalFilename string) (*dto.UploadResultDTO, error) {
	fileHash, err := util.FileSHA256(path)
	if err != nil {
		return nil, err
	}

	// 解析之前先验重，重复文件不做任何写入
	uploadRepo := repository.NewUploadRepository(s.db)
	existing, err := uploadRepo.FindByHash(ctx, fileHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateFile
	}

	wb, err := ingest.LoadWorkbook(path)
	if err != nil {
		log.WarnContext(ctx, "Workbook load failed", "filename", originalFilename, "err", err.Error())
		return nil, ErrFileNotSupported
	}

	format := ingest.DetectFormat(wb)

	var (
		stats    dto.ImportStatsDTO
		warnings []string
	)

	switch format {
	case ingest.FormatAggregate:
		parsed := ingest.ParseAggregate(wb)
		warnings = append(wb.Warnings, parsed.Warnings...)
		if parsed.TotalRecords() == 0 {
			return nil, ErrNoUsableRecords
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			var mergeErr error
			stats, mergeErr = s.mergeAggregate(ctx, tx, parsed)
			if mergeErr != nil {
				return mergeErr
			}
			return s.recordUpload(ctx, tx, originalFilename, fileHash, stats.RecordsImported)
		})
	case ingest.FormatPerPost:
		parsed := ingest.ParsePerPost(wb)
		warnings = append(wb.Warnings, parsed.Warnings...)
		if !usablePerPost(parsed) {
			return nil, ErrNoUsableRecords
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			var mergeErr error
			stats, mergeErr = s.mergePerPost(ctx, tx, parsed)
			if mergeErr != nil {
				return mergeErr
			}
			return s.recordUpload(ctx, tx, originalFilename, fileHash, stats.RecordsImported)
		})
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Export file ingested",
		"filename", originalFilename,
		"format", format,
		"records", stats.RecordsImported,
		"warnings", len(warnings))

	result := &dto.UploadResultDTO{
		Filename: originalFilename,
		Format:   format,
		Stats:    &stats,
		Warnings: warnings,
	}
	if upload, findErr := uploadRepo.FindByHash(ctx, fileHash); findErr == nil && upload != nil {
		result.UploadID = upload.ID
	}
	return result, nil
}

func (s *ingestServiceImpl) IngestBatch(ctx context.Context, files []SavedFile) []*dto.BatchItemDTO {
	results := make([]*dto.BatchItemDTO, 0, len(files))
	for _, f := range files {
		item := &dto.BatchItemDTO{Filename: f.Filename, Status: "success"}
		if _, err := s.IngestFile(ctx, f.Path, f.Filename); err != nil {
			item.Status = "failed"
			item.Error = err.Error()
		}
		results = append(results, item)
	}
	return results
}

func (s *ingestServiceImpl) ListUploads(ctx context.Context, limit int) ([]*dto.UploadHistoryDTO, error) {
	uploads, err := repository.NewUploadRepository(s.db).ListUploads(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.UploadHistoryDTO, 0, len(uploads))
	for _, u := range uploads {
		items = append(items, &dto.UploadHistoryDTO{
			ID:              u.ID,
			Filename:        u.Filename,
			RecordsImported: u.RecordsImported,
			Status:          u.Status,
			UploadDate:      u.UploadDate.Format(time.DateOnly),
		})
	}
	return items, nil
}

// recordUpload 与合并同事务写入上传记录。并发导入同一文件时，
// file_hash 唯一索引让后到的事务连同其合并一起回滚
func (s *ingestServiceImpl) recordUpload(ctx context.Context, tx *gorm.DB, filename, fileHash string, records int) error {
	return repository.NewUploadRepository(tx).CreateUpload(ctx, &model.Upload{
		Filename:        filename,
		FileHash:        fileHash,
		RecordsImported: records,
		Status:          model.UploadStatusCompleted,
	})
}

// usablePerPost 单帖导出至少要能定位到帖子
func usablePerPost(p *ingest.PerPostExport) bool {
	return p.LinkedInPostID != "" || p.HasPostDate
}

// mergeAggregate 合并聚合导出的全部记录
func (s *ingestServiceImpl) mergeAggregate(ctx context.Context, tx *gorm.DB, parsed *ingest.ParsedExport) (dto.ImportStatsDTO, error) {
	var stats dto.ImportStatsDTO
	postRepo := repository.NewPostRepository(tx)
	metricRepo := repository.NewDailyMetricRepository(tx)
	snapshotRepo := repository.NewSnapshotRepository(tx)

	for i := range parsed.Posts {
		created, err := s.mergePostRecord(ctx, postRepo, &parsed.Posts[i])
		if err != nil {
			return stats, err
		}
		if created {
			stats.PostsCreated++
		} else {
			stats.PostsUpdated++
		}
	}

	for i := range parsed.Daily {
		if err := s.mergeDailyRecord(ctx, metricRepo, &parsed.Daily[i]); err != nil {
			return stats, err
		}
		stats.DailyMetrics++
	}

	for i := range parsed.Followers {
		if err := s.mergeFollowerRecord(ctx, snapshotRepo, &parsed.Followers[i]); err != nil {
			return stats, err
		}
		stats.Followers++
	}

	snapshotDate := util.GetMidnight(time.Now())
	for i := range parsed.Demographics {
		rec := &parsed.Demographics[i]
		err := snapshotRepo.UpsertDemographicSnapshot(ctx, &model.DemographicSnapshot{
			SnapshotDate: snapshotDate,
			Category:     rec.Category,
			Value:        rec.Value,
			Percentage:   rec.Percentage,
		})
		if err != nil {
			return stats, err
		}
		stats.Demographics++
	}

	stats.RecordsImported = parsed.TotalRecords()
	return stats, nil
}

// mergePostRecord 三级匹配后合并单条帖子记录。
// 匹配顺序：外部帖子标识 -> 日期+标题 -> 仅日期（无标题行），先命中先用
func (s *ingestServiceImpl) mergePostRecord(ctx context.Context, postRepo repository.PostRepo, rec *ingest.PostRecord) (bool, error) {
	post, err := s.findMatchingPost(ctx, postRepo, rec.LinkedInPostID, rec.PostDate, rec.Title)
	if err != nil {
		return false, err
	}

	if post == nil {
		post = &model.Post{
			PostDate:       rec.PostDate,
			PostType:       rec.PostType,
			Impressions:    rec.Impressions,
			MembersReached: rec.MembersReached,
			Reactions:      rec.Reactions,
			Comments:       rec.Comments,
			Shares:         rec.Shares,
			Clicks:         rec.Clicks,
		}
		if rec.Title != "" {
			post.Title = util.PtrString(rec.Title)
		}
		if rec.LinkedInPostID != "" {
			post.LinkedInPostID = util.PtrString(rec.LinkedInPostID)
		}
		post.RecalculateEngagementRate()
		return true, postRepo.CreatePost(ctx, post)
	}

	post.Impressions = maxInt(post.Impressions, rec.Impressions)
	post.MembersReached = maxInt(post.MembersReached, rec.MembersReached)
	post.Reactions = maxInt(post.Reactions, rec.Reactions)
	post.Comments = maxInt(post.Comments, rec.Comments)
	post.Shares = maxInt(post.Shares, rec.Shares)
	post.Clicks = maxInt(post.Clicks, rec.Clicks)

	fillPostIdentity(post, rec.LinkedInPostID, rec.PostType, rec.Title)
	post.RecalculateEngagementRate()
	linkAnalytics(post)

	return false, postRepo.SavePost(ctx, post)
}

// mergePerPost 合并单帖明细导出
func (s *ingestServiceImpl) mergePerPost(ctx context.Context, tx *gorm.DB, parsed *ingest.PerPostExport) (dto.ImportStatsDTO, error) {
	var stats dto.ImportStatsDTO
	postRepo := repository.NewPostRepository(tx)
	snapshotRepo := repository.NewSnapshotRepository(tx)

	post, err := s.findMatchingPost(ctx, postRepo, parsed.LinkedInPostID, parsed.PostDate, "")
	if err != nil {
		return stats, err
	}

	created := post == nil
	if created {
		post = &model.Post{PostDate: parsed.PostDate}
		if parsed.LinkedInPostID != "" {
			post.LinkedInPostID = util.PtrString(parsed.LinkedInPostID)
		}
	}

	post.Impressions = maxInt(post.Impressions, parsed.Impressions)
	post.MembersReached = maxInt(post.MembersReached, parsed.MembersReached)
	post.Reactions = maxInt(post.Reactions, parsed.Reactions)
	post.Comments = maxInt(post.Comments, parsed.Comments)
	post.Reposts = maxInt(post.Reposts, parsed.Reposts)
	post.Saves = maxInt(post.Saves, parsed.Saves)
	post.Sends = maxInt(post.Sends, parsed.Sends)
	post.ProfileViews = maxInt(post.ProfileViews, parsed.ProfileViews)
	post.FollowersGained = maxInt(post.FollowersGained, parsed.FollowersGained)

	fillPostIdentity(post, parsed.LinkedInPostID, "", "")
	if post.PostHour == nil && parsed.PostHour != nil {
		post.PostHour = parsed.PostHour
	}
	if post.PostURL == "" && parsed.PostURL != "" {
		post.PostURL = parsed.PostURL
	}
	post.RecalculateEngagementRate()

	if created {
		if err = postRepo.CreatePost(ctx, post); err != nil {
			return stats, err
		}
		stats.PostsCreated++
	} else {
		linkAnalytics(post)
		if err = postRepo.SavePost(ctx, post); err != nil {
			return stats, err
		}
		stats.PostsUpdated++
	}

	for i := range parsed.Demographics {
		rec := &parsed.Demographics[i]
		err = snapshotRepo.UpsertPostDemographic(ctx, &model.PostDemographic{
			PostID:     post.ID,
			Category:   rec.Category,
			Value:      rec.Value,
			Percentage: rec.Percentage,
		})
		if err != nil {
			return stats, err
		}
		stats.Demographics++
	}

	stats.RecordsImported = 1 + len(parsed.Demographics)
	return stats, nil
}

// findMatchingPost 实体匹配。标题比较前与导入侧做同样的截断
func (s *ingestServiceImpl) findMatchingPost(ctx context.Context, postRepo repository.PostRepo, linkedinPostID string, postDate time.Time, title string) (*model.Post, error) {
	if linkedinPostID != "" {
		post, err := postRepo.FindByLinkedInID(ctx, linkedinPostID)
		if err != nil || post != nil {
			return post, err
		}
	}

	if postDate.IsZero() {
		return nil, nil
	}

	if title != "" {
		post, err := postRepo.FindByDateTitle(ctx, postDate, title)
		if err != nil || post != nil {
			return post, err
		}
	}

	return postRepo.FindByDateOnly(ctx, postDate)
}

// fillPostIdentity 标识类字段只在缺失时补齐，绝不覆盖已有值
func fillPostIdentity(post *model.Post, linkedinPostID, postType, title string) {
	if post.LinkedInPostID == nil && linkedinPostID != "" {
		post.LinkedInPostID = util.PtrString(linkedinPostID)
	}
	if post.PostType == "" && postType != "" {
		post.PostType = postType
	}
	if post.Title == nil && title != "" {
		post.Title = util.PtrString(title)
	}
}

// linkAnalytics 已发布的帖子首次被导出数据命中时标记为 analytics_linked。
// 空状态（纯导入）与已标记状态不变，状态机不可逆
func linkAnalytics(post *model.Post) {
	if post.Status == model.PostStatusPublished {
		post.Status = model.PostStatusAnalyticsLinked
	}
}

func (s *ingestServiceImpl) mergeDailyRecord(ctx context.Context, metricRepo repository.DailyMetricRepo, rec *ingest.DailyRecord) error {
	existing, err := metricRepo.FindChannelMetric(ctx, rec.MetricDate)
	if err != nil {
		return err
	}
	if existing == nil {
		return metricRepo.CreateMetric(ctx, &model.DailyMetric{
			MetricDate:     rec.MetricDate,
			Impressions:    rec.Impressions,
			MembersReached: rec.MembersReached,
			Reactions:      rec.Reactions,
			Comments:       rec.Comments,
			Shares:         rec.Shares,
			Clicks:         rec.Clicks,
		})
	}

	existing.Impressions = maxInt(existing.Impressions, rec.Impressions)
	existing.MembersReached = maxInt(existing.MembersReached, rec.MembersReached)
	existing.Reactions = maxInt(existing.Reactions, rec.Reactions)
	existing.Comments = maxInt(existing.Comments, rec.Comments)
	existing.Shares = maxInt(existing.Shares, rec.Shares)
	existing.Clicks = maxInt(existing.Clicks, rec.Clicks)
	return metricRepo.SaveMetric(ctx, existing)
}

// mergeFollowerRecord 粉丝快照是时点值，后到覆盖
func (s *ingestServiceImpl) mergeFollowerRecord(ctx context.Context, snapshotRepo repository.SnapshotRepo, rec *ingest.FollowerRecord) error {
	existing, err := snapshotRepo.FindFollowerSnapshot(ctx, rec.SnapshotDate)
	if err != nil {
		return err
	}
	if existing == nil {
		return snapshotRepo.CreateFollowerSnapshot(ctx, &model.FollowerSnapshot{
			SnapshotDate:   rec.SnapshotDate,
			TotalFollowers: rec.TotalFollowers,
			NewFollowers:   rec.NewFollowers,
		})
	}
	existing.TotalFollowers = rec.TotalFollowers
	existing.NewFollowers = rec.NewFollowers
	return snapshotRepo.SaveFollowerSnapshot(ctx, existing)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
