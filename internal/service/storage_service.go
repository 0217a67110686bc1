package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"skilldev_backend/internal/config"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 证书与课程视频的存储后端
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	GetURL(objectName string) string
}

// LocalStorageProvider 本地磁盘，URL 以 /uploads 开头
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) path(objectName string) (string, error) {
	dst := filepath.Join(p.Root, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	return dst, nil
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := p.path(objectName)
	if err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()
	return p.Upload(ctx, objectName, src, -1, contentType)
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectName string) error {
	err := os.Remove(filepath.Join(p.Root, filepath.FromSlash(objectName)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *LocalStorageProvider) GetURL(objectName string) string {
	return "/uploads/" + objectName
}

// MinioStorageProvider MinIO 对象存储
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectName string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, objectName, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(objectName string) string {
	return "/" + p.Bucket + "/" + objectName
}

// OSSStorageProvider 阿里云 OSS
type OSSStorageProvider struct {
	Endpoint string
	Bucket   *oss.Bucket
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Endpoint: cfg.OSSEndpoint, Bucket: bucket}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := p.Bucket.PutObject(objectName, reader, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *OSSStorageProvider) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	if err := p.Bucket.PutObjectFromFile(objectName, localPath, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, objectName string) error {
	return p.Bucket.DeleteObject(objectName)
}

func (p *OSSStorageProvider) GetURL(objectName string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Bucket.BucketName, p.Endpoint, objectName)
}

// StorageService 按配置选择存储后端，远端初始化失败时退回本地磁盘
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.StorageConfig) *StorageService {
	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Type {
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(cfg)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(cfg)
	}
	if err != nil {
		logger.Log.Warn("对象存储初始化失败，使用本地存储", zap.String("type", cfg.Type), zap.Error(err))
		provider = nil
	}
	if provider == nil {
		provider = &LocalStorageProvider{Root: cfg.LocalPath}
	}
	return &StorageService{Provider: provider}
}

// ObjectName 生成 prefix/yyyymm/uuid.ext 形式的对象名
func ObjectName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, time.Now().Format("200601"), uuid.New().String()+ext)
}

func (s *StorageService) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, objectName, reader, size, contentType)
}

func (s *StorageService) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	return s.Provider.UploadFile(ctx, objectName, localPath, contentType)
}

func (s *StorageService) Delete(ctx context.Context, objectName string) error {
	return s.Provider.Delete(ctx, objectName)
}
