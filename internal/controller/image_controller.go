package controller

import (
	"errors"
	"net/http"
	"quizforge_backend/internal/service"
	"quizforge_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type ImageController struct {
	Storage *service.StorageService
}

func NewImageController(storage *service.StorageService) *ImageController {
	return &ImageController{Storage: storage}
}

// GetImage godoc
// @Summary 获取测验封面图
// @Description 按存储中的文件名读取图片流，内容不可变，长期缓存
// @Tags 图片
// @Produce png
// @Param imageId path string true "图片文件名"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /api/images/{imageId} [get]
func (c *ImageController) GetImage(ctx *gin.Context) {
	imageID := ctx.Param("imageId")
	if imageID == "" || strings.Contains(imageID, "/") || strings.Contains(imageID, "..") {
		util.BadRequest(ctx, "invalid image id")
		return
	}

	reader, info, err := c.Storage.Download(ctx.Request.Context(), imageID)
	if err != nil {
		if errors.Is(err, util.ErrImageNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	defer reader.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = util.MimePNG
	}

	// 文件名带 UUID，内容不会变，允许客户端缓存一年
	ctx.Header("Cache-Control", "public, max-age=31536000, immutable")
	ctx.DataFromReader(http.StatusOK, info.Size, contentType, reader, nil)
}
