package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/reaper/pkg/resource"
)

// lastUsedLayouts are the accepted ISO 8601 forms of the LastUsed tag.
// Values without an offset are read as UTC.
var lastUsedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseLastUsed parses a LastUsed tag value.
func parseLastUsed(value string) (time.Time, error) {
	for _, layout := range lastUsedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

type functionStrategy struct {
	client LambdaAPI
	tag    string
}

func (s functionStrategy) Category() resource.Category {
	return resource.ServerlessFunction
}

// Discover reads each function's tags. Only functions carrying the LastUsed tag can
// be flagged; there is no fallback timestamp.
func (s functionStrategy) Discover(ctx context.Context, d *discovery) error {
	output, err := s.client.ListFunctions(ctx, &lambda.ListFunctionsInput{})
	if err != nil {
		return fmt.Errorf("list functions: %w", err)
	}

	for _, fn := range output.Functions {
		arn := aws.ToString(fn.FunctionArn)

		tags, err := s.client.ListTags(ctx, &lambda.ListTagsInput{Resource: fn.FunctionArn})
		if err != nil {
			return fmt.Errorf("list tags for %s: %w", arn, err)
		}

		value, ok := tags.Tags[s.tag]
		if !ok {
			continue
		}

		lastUsed, err := parseLastUsed(value)
		if err != nil {
			log.Warn().
				Err(err).
				Str("function", arn).
				Str("tag", s.tag).
				Msg("malformed last-used tag, skipping")
			d.skip(resource.ServerlessFunction, arn, "malformed "+s.tag+" tag")
			continue
		}

		d.observe(resource.ServerlessFunction, arn, lastUsed)
	}

	return nil
}

func (s functionStrategy) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteFunction(ctx, &lambda.DeleteFunctionInput{FunctionName: aws.String(id)})
	if err != nil {
		return fmt.Errorf("delete function: %w", err)
	}
	return nil
}
