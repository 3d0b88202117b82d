package service

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"photo-asset-server/config"
	"photo-asset-server/internal/util"
)

// ArchiveService : холодное хранилище оригиналов. Сюда попадают проекты,
// выгруженные с диска; слой доставки только читает — запись в архив делает
// внешний pipeline.
type ArchiveService struct {
	client   *s3.Client
	bucket   string
	psClient *s3.PresignClient
}

func NewArchiveService(ctx context.Context, cfg *config.S3Config) (*ArchiveService, error) {
	var client *s3.Client

	if cfg.Local {
		client = s3.New(s3.Options{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				"minioadmin",
				"minioadmin",
				"",
			),
			BaseEndpoint: aws.String(cfg.Endpoint),
			UsePathStyle: true,
		})
	} else {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, util.LogError("[ArchiveService] ошибка загрузки AWS config", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	psClient := s3.NewPresignClient(client)

	return &ArchiveService{
		client:   client,
		psClient: psClient,
		bucket:   cfg.Bucket,
	}, nil
}

// GeneratePresignedGetURL : генерация pre-signed URL для GET
func (s *ArchiveService) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	req, err := s.psClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expire
	})
	if err != nil {
		return "", util.LogError("[ArchiveService] не удалось сгенерировать presigned GET URL", err)
	}

	return req.URL, nil
}
