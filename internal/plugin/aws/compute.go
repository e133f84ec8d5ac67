package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/yairfalse/reaper/pkg/resource"
)

type computeStrategy struct {
	client EC2API
}

func (s computeStrategy) Category() resource.Category {
	return resource.ComputeInstance
}

// Discover considers stopped instances only; idle time counts from launch.
func (s computeStrategy) Discover(ctx context.Context, d *discovery) error {
	output, err := s.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{string(ec2types.InstanceStateNameStopped)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("describe instances: %w", err)
	}

	for _, reservation := range output.Reservations {
		for _, instance := range reservation.Instances {
			s.evaluate(d, instance)
		}
	}

	return nil
}

func (s computeStrategy) evaluate(d *discovery, instance ec2types.Instance) {
	id := aws.ToString(instance.InstanceId)
	if instance.State == nil || instance.State.Name != ec2types.InstanceStateNameStopped {
		return
	}
	if instance.LaunchTime == nil {
		d.skip(resource.ComputeInstance, id, "missing launch time")
		return
	}
	d.observe(resource.ComputeInstance, id, *instance.LaunchTime)
}

func (s computeStrategy) Delete(ctx context.Context, id string) error {
	_, err := s.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("terminate instance: %w", err)
	}
	return nil
}
