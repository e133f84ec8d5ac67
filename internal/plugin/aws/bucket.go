package aws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/reaper/pkg/resource"
)

// ProbeOutcome classifies the result of probing a bucket.
type ProbeOutcome int

const (
	// ProbeFound means the bucket exists and is reachable.
	ProbeFound ProbeOutcome = iota
	// ProbeNotFound means the bucket no longer exists.
	ProbeNotFound
	// ProbeAccessDenied means the caller may not access the bucket.
	ProbeAccessDenied
	// ProbeFailed covers every other probe error.
	ProbeFailed
)

func (o ProbeOutcome) String() string {
	switch o {
	case ProbeFound:
		return "found"
	case ProbeNotFound:
		return "not_found"
	case ProbeAccessDenied:
		return "access_denied"
	default:
		return "failed"
	}
}

// classifyProbeError maps a HeadBucket error to an outcome.
func classifyProbeError(err error) ProbeOutcome {
	if err == nil {
		return ProbeFound
	}

	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return ProbeNotFound
	}
	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return ProbeNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return ProbeNotFound
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return ProbeAccessDenied
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return ProbeNotFound
		case http.StatusForbidden:
			return ProbeAccessDenied
		}
	}

	return ProbeFailed
}

type bucketStrategy struct {
	client S3API
}

func (s bucketStrategy) Category() resource.Category {
	return resource.ObjectStoreBucket
}

// Discover probes every bucket. Buckets whose probe does not succeed are skipped
// and never fail discovery.
func (s bucketStrategy) Discover(ctx context.Context, d *discovery) error {
	output, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}

	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)

		outcome, modified := s.probe(ctx, name, bucket.CreationDate)
		if outcome != ProbeFound {
			log.Warn().
				Str("bucket", name).
				Str("outcome", outcome.String()).
				Msg("bucket probe failed, skipping")
			d.skip(resource.ObjectStoreBucket, name, "probe "+outcome.String())
			continue
		}
		if modified.IsZero() {
			d.skip(resource.ObjectStoreBucket, name, "missing last-modified time")
			continue
		}

		d.observe(resource.ObjectStoreBucket, name, modified)
	}

	return nil
}

// probe issues HeadBucket and returns the classified outcome with the bucket's
// last-modified time.
func (s bucketStrategy) probe(ctx context.Context, name string, created *time.Time) (ProbeOutcome, time.Time) {
	output, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)})
	if err != nil {
		log.Debug().Err(err).Str("bucket", name).Msg("head bucket")
		return classifyProbeError(err), time.Time{}
	}
	return ProbeFound, referenceTime(lastModifiedHeader(output.ResultMetadata), created)
}

// lastModifiedHeader returns the Last-Modified header of the raw probe response, if any.
func lastModifiedHeader(meta middleware.Metadata) string {
	raw, ok := awsmiddleware.GetRawResponse(meta).(*smithyhttp.Response)
	if !ok || raw == nil || raw.Response == nil {
		return ""
	}
	return raw.Header.Get("Last-Modified")
}

// referenceTime prefers the Last-Modified header and falls back to the creation date.
func referenceTime(header string, created *time.Time) time.Time {
	if header != "" {
		if t, err := http.ParseTime(header); err == nil {
			return t
		}
	}
	if created != nil {
		return *created
	}
	return time.Time{}
}

// Delete removes the bucket. Non-empty buckets fail; contents are not purged.
func (s bucketStrategy) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(id)})
	if err != nil {
		return fmt.Errorf("delete bucket: %w", err)
	}
	return nil
}
