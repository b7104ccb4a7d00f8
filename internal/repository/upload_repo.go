package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UploadRepo interface {
	FindByHash(ctx context.Context, fileHash string) (*model.Upload, error)
	CreateUpload(ctx context.Context, upload *model.Upload) error
	ListUploads(ctx context.Context, limit int) ([]*model.Upload, error)
}

type uploadRepoImpl struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepo {
	return &uploadRepoImpl{db: db}
}

func (r *uploadRepoImpl) FindByHash(ctx context.Context, fileHash string) (*model.Upload, error) {
	var upload model.Upload
	err := r.db.WithContext(ctx).
		Where("file_hash = ?", fileHash).
		First(&upload).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &upload, nil
}

// CreateUpload 写入导入记录。并发导入同一文件时由 file_hash 唯一索引裁决，
// 不做应用层加锁
func (r *uploadRepoImpl) CreateUpload(ctx context.Context, upload *model.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *uploadRepoImpl) ListUploads(ctx context.Context, limit int) ([]*model.Upload, error) {
	uploads := make([]*model.Upload, 0, limit)
	err := r.db.WithContext(ctx).
		Order("upload_date DESC").
		Limit(limit).
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}
