package emitter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/reaper/pkg/resource"
)

func TestLogEmitter_Emit(t *testing.T) {
	var buf bytes.Buffer
	e := &LogEmitter{logger: zerolog.New(&buf)}

	set := resource.NewUnusedSet()
	set.Add(resource.ComputeInstance, "i-0abc")
	set.Add(resource.ServerlessFunction, "arn:aws:lambda:us-east-1:123456789012:function:old")

	result := resource.SweepResult{
		Provider:      "aws",
		Region:        "us-east-1",
		ThresholdDays: 30,
		Unused:        set,
		Skipped: []resource.Skip{
			{Category: resource.ObjectStoreBucket, ID: "logs", Reason: "probe access_denied"},
		},
		Deleted: 2,
	}

	err := e.Emit(context.Background(), result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"category":"ec2","unused":1`)
	assert.Contains(t, out, `"category":"rds","unused":0`)
	assert.Contains(t, out, `"reason":"probe access_denied"`)
	assert.Contains(t, out, `"deleted":2`)
	assert.Contains(t, out, `"message":"sweep complete"`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestLogEmitter_EmitError(t *testing.T) {
	var buf bytes.Buffer
	e := &LogEmitter{logger: zerolog.New(&buf)}

	err := e.Emit(context.Background(), resource.SweepResult{
		Provider: "aws",
		Error:    errors.New("discover rds: throttled"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"error":"discover rds: throttled"`)
}

func TestLogEmitter_Close(t *testing.T) {
	require.NoError(t, NewLogEmitter().Close())
}
