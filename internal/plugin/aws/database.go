package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/yairfalse/reaper/pkg/resource"
)

const dbStatusStopped = "stopped"

type databaseStrategy struct {
	client RDSAPI
}

func (s databaseStrategy) Category() resource.Category {
	return resource.ManagedDatabase
}

// Discover lists every DB instance and keeps the stopped ones; idle time counts from creation.
func (s databaseStrategy) Discover(ctx context.Context, d *discovery) error {
	output, err := s.client.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return fmt.Errorf("describe db instances: %w", err)
	}

	for _, instance := range output.DBInstances {
		s.evaluate(d, instance)
	}

	return nil
}

func (s databaseStrategy) evaluate(d *discovery, instance rdstypes.DBInstance) {
	if aws.ToString(instance.DBInstanceStatus) != dbStatusStopped {
		return
	}
	id := aws.ToString(instance.DBInstanceIdentifier)
	if instance.InstanceCreateTime == nil {
		d.skip(resource.ManagedDatabase, id, "missing creation time")
		return
	}
	d.observe(resource.ManagedDatabase, id, *instance.InstanceCreateTime)
}

// Delete removes the instance without taking a final snapshot.
func (s databaseStrategy) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier: aws.String(id),
		SkipFinalSnapshot:    aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("delete db instance: %w", err)
	}
	return nil
}
