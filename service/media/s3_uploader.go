package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Config struct {
	Region string
	Bucket string
	// PublicBase 为空时拼默认的 bucket 域名
	PublicBase string
}

// S3Uploader 帖子和消息的图片/音频都传到对象存储，库里只存URL
type S3Uploader struct {
	client *s3.Client
	cfg    Config
}

func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if cfg.PublicBase == "" {
		cfg.PublicBase = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
	return &S3Uploader{client: s3.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// Upload 上传字节流，按 MIME 推断资源类型。
// 返回的 kind 直接落到内容变体字段上（image/audio）。
func (u *S3Uploader) Upload(ctx context.Context, data []byte, mimeHint string) (string, string, error) {
	kind, ext, err := resolveKind(mimeHint)
	if err != nil {
		return "", "", err
	}
	key := fmt.Sprintf("media/%s/%s/%s%s", kind, time.Now().Format("20060102"), uuid.NewString(), ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimeHint),
	})
	if err != nil {
		return "", "", errs.ErrUploadFailure.WrapMsg(err.Error(), "key", key)
	}
	return u.cfg.PublicBase + "/" + key, kind, nil
}

func resolveKind(mimeHint string) (kind string, ext string, err error) {
	switch {
	case strings.HasPrefix(mimeHint, "image/"):
		kind = socialmodel.ContentImage
	case strings.HasPrefix(mimeHint, "audio/"):
		kind = socialmodel.ContentAudio
	default:
		return "", "", errs.ErrValidation.WrapMsg("unsupported media type", "mime", mimeHint)
	}
	if i := strings.Index(mimeHint, "/"); i >= 0 && i+1 < len(mimeHint) {
		ext = "." + mimeHint[i+1:]
	}
	return kind, ext, nil
}
