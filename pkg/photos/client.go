// Package photos загружает фотографии товаров в S3-совместимое хранилище.
//
// Content API принимает в photo_urls не ссылки, а UUID загруженных
// объектов. Пайплайн: исходные байты → даунскейл до max_width → JPEG →
// PutObject под новым UUID → UUID уходит в карточку товара.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/utils"
)

// Uploader — интерфейс загрузчика фотографий.
// Используется для мокания в тестах и внедрения зависимостей.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

type Client struct {
	api      *minio.Client
	bucket   string
	maxWidth int
	quality  int
}

// Проверка что Client реализует Uploader
var _ Uploader = (*Client)(nil)

// New создает клиент, используя наш конфиг.
func New(cfg config.PhotosConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("photos.bucket is required")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	return &Client{
		api:      minioClient,
		bucket:   cfg.Bucket,
		maxWidth: cfg.MaxWidth,
		quality:  quality,
	}, nil
}

// Upload сжимает фото и кладёт его в bucket под новым UUID.
//
// Возвращает UUID объекта — именно он идёт в photo_urls карточки товара.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	processed, err := utils.ResizeImage(data, c.maxWidth, c.quality)
	if err != nil {
		return "", fmt.Errorf("process photo: %w", err)
	}

	key := uuid.NewString()
	_, err = c.api.PutObject(ctx, c.bucket, key,
		bytes.NewReader(processed), int64(len(processed)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("upload photo %s: %w", key, err)
	}

	return key, nil
}

// Download скачивает фото целиком в память.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get photo %s: %w", key, err)
	}
	defer obj.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, obj); err != nil {
		return nil, fmt.Errorf("read photo %s: %w", key, err)
	}

	return buf.Bytes(), nil
}
