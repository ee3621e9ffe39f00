// Инструмент загрузки фотографий товаров.
package std

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/photos"
	"github.com/Lazizkhan1/Easify/pkg/tools"
)

// UploadPhotoTool принимает фото в base64, сжимает и загружает в хранилище.
//
// Возвращённый UUID идёт в photo_urls при создании или обновлении
// карточки товара. Фронтенды (телеграм) подставляют base64 сами,
// когда пользователь прикладывает фотографию к сообщению.
type UploadPhotoTool struct {
	uploader    photos.Uploader
	description string
}

func NewUploadPhotoTool(u photos.Uploader, cfg config.ToolConfig) *UploadPhotoTool {
	return &UploadPhotoTool{
		uploader: u,
		description: describe(cfg,
			"Загрузить фотографию товара. Принимает изображение в base64, возвращает UUID для photo_urls."),
	}
}

func (t *UploadPhotoTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "upload_photo",
		Description: t.description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"image_base64": map[string]interface{}{
					"type":        "string",
					"description": "Изображение (JPEG или PNG), закодированное в base64",
				},
			},
			"required": []string{"image_base64"},
		},
	}
}

func (t *UploadPhotoTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", invalidArgs(err)
	}
	if args.ImageBase64 == "" {
		return tools.Fail("image_base64 is required"), nil
	}

	if _, failed := sessionFrom(ctx); failed != "" {
		return failed, nil
	}

	data, err := base64.StdEncoding.DecodeString(args.ImageBase64)
	if err != nil {
		return tools.Fail("image_base64 is not valid base64: %v", err), nil
	}

	key, err := t.uploader.Upload(ctx, data)
	if err != nil {
		return tools.Fail("failed to upload photo: %v", err), nil
	}

	return tools.OK(map[string]string{"photo_url": key})
}
