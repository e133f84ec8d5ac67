package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/reaper/pkg/resource"
)

func TestParseLastUsed(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00+02:00", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00.123456", time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01 10:00:00+00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseLastUsed(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseLastUsed_Malformed(t *testing.T) {
	for _, value := range []string{"", "yesterday", "05/01/2024", "2024-13-01"} {
		_, err := parseLastUsed(value)
		assert.Error(t, err, value)
	}
}

func functionsMock(tags map[string]map[string]string) *mockLambdaClient {
	return &mockLambdaClient{
		ListFunctionsFunc: func(_ context.Context, _ *lambda.ListFunctionsInput, _ ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
			var fns []lambdatypes.FunctionConfiguration
			for _, arn := range []string{"arn:fn:stale", "arn:fn:recent", "arn:fn:untagged", "arn:fn:garbled"} {
				if _, ok := tags[arn]; ok {
					fns = append(fns, lambdatypes.FunctionConfiguration{FunctionArn: aws.String(arn)})
				}
			}
			return &lambda.ListFunctionsOutput{Functions: fns}, nil
		},
		ListTagsFunc: func(_ context.Context, params *lambda.ListTagsInput, _ ...func(*lambda.Options)) (*lambda.ListTagsOutput, error) {
			return &lambda.ListTagsOutput{Tags: tags[aws.ToString(params.Resource)]}, nil
		},
	}
}

func TestFunctionDiscover(t *testing.T) {
	mock := functionsMock(map[string]map[string]string{
		"arn:fn:stale":    {"LastUsed": testNow.AddDate(0, 0, -45).Format(time.RFC3339)},
		"arn:fn:recent":   {"LastUsed": testNow.AddDate(0, 0, -2).Format(time.RFC3339)},
		"arn:fn:untagged": {"team": "platform"},
	})

	d := newDiscovery(testNow, 30)
	err := functionStrategy{client: mock, tag: DefaultLastUsedTag}.Discover(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, []string{"arn:fn:stale"}, d.unused.IDs(resource.ServerlessFunction))
	require.Len(t, d.records, 1)
	assert.Equal(t, 45, d.records[0].IdleDays)
	assert.Empty(t, d.skipped)
}

func TestFunctionDiscover_FutureLastUsedNeverQualifies(t *testing.T) {
	mock := functionsMock(map[string]map[string]string{
		"arn:fn:ahead":     {"LastUsed": testNow.Add(12 * time.Hour).Format(time.RFC3339)},
		"arn:fn:yesterday": {"LastUsed": testNow.Add(-25 * time.Hour).Format(time.RFC3339)},
	})

	d := newDiscovery(testNow, 0)
	err := functionStrategy{client: mock, tag: DefaultLastUsedTag}.Discover(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, []string{"arn:fn:yesterday"}, d.unused.IDs(resource.ServerlessFunction))
	require.Len(t, d.records, 1)
	assert.Equal(t, 1, d.records[0].IdleDays)
}

func TestRun_FutureLastUsedAtZeroThreshold(t *testing.T) {
	mock := functionsMock(map[string]map[string]string{
		"arn:fn:ahead": {"LastUsed": testNow.Add(12 * time.Hour).Format(time.RFC3339)},
	})
	p := newTestPlugin(Clients{Lambda: mock})
	p.thresholdDays = 0

	result, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, result.Unused.Len())
	assert.Empty(t, result.Records)
	assert.Zero(t, result.Deleted)
	assert.Empty(t, mock.deleted)
}

func TestFunctionDiscover_MalformedTagSkipped(t *testing.T) {
	mock := functionsMock(map[string]map[string]string{
		"arn:fn:garbled": {"LastUsed": "last tuesday"},
		"arn:fn:stale":   {"LastUsed": "2020-01-01"},
	})

	d := newDiscovery(testNow, 30)
	err := functionStrategy{client: mock, tag: DefaultLastUsedTag}.Discover(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, []string{"arn:fn:stale"}, d.unused.IDs(resource.ServerlessFunction))
	require.Len(t, d.skipped, 1)
	assert.Equal(t, "arn:fn:garbled", d.skipped[0].ID)
	assert.Contains(t, d.skipped[0].Reason, "LastUsed")
}

func TestFunctionDiscover_CustomTag(t *testing.T) {
	mock := functionsMock(map[string]map[string]string{
		"arn:fn:stale": {"LastUsed": "2020-01-01", "last-invoked": "2024-06-29"},
	})

	d := newDiscovery(testNow, 30)
	err := functionStrategy{client: mock, tag: "last-invoked"}.Discover(context.Background(), d)

	require.NoError(t, err)
	assert.Empty(t, d.unused.IDs(resource.ServerlessFunction))
}

func TestFunctionDiscover_ListTagsError(t *testing.T) {
	mock := functionsMock(map[string]map[string]string{"arn:fn:stale": {}})
	mock.ListTagsFunc = func(_ context.Context, _ *lambda.ListTagsInput, _ ...func(*lambda.Options)) (*lambda.ListTagsOutput, error) {
		return nil, errors.New("throttled")
	}

	err := functionStrategy{client: mock, tag: DefaultLastUsedTag}.Discover(context.Background(), newDiscovery(testNow, 30))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "arn:fn:stale")
	assert.Contains(t, err.Error(), "throttled")
}

func TestFunctionDelete(t *testing.T) {
	mock := &mockLambdaClient{}

	err := functionStrategy{client: mock}.Delete(context.Background(), "arn:fn:stale")

	require.NoError(t, err)
	assert.Equal(t, []string{"arn:fn:stale"}, mock.deleted)
}
