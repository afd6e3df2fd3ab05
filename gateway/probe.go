package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// The s3-tests conf ships with fixed dummy credentials; the gateway does
// not validate them, it only needs a signed request.
const (
	probeAccessKey = "s3gateway"
	probeSecretKey = "s3gateway"
	probeRegion    = "us-east-1"
)

// ProbeS3 issues a ListBuckets call against the gateway endpoint to
// verify it speaks S3, not just HTTP. Used after WaitReady when the
// deep probe is enabled.
func ProbeS3(ctx context.Context, log *slog.Logger, addr string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(probeRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(probeAccessKey, probeSecretKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to build S3 probe config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("http://%s", addr))
		o.UsePathStyle = true
		// Readiness is already established by the HTTP poll; the probe
		// itself is single-shot.
		o.RetryMaxAttempts = 1
	})

	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("s3 probe failed: %w", err)
	}

	log.Debug("s3 probe succeeded", "buckets", len(out.Buckets))
	return nil
}
