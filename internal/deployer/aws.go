// Where: cli/internal/deployer/aws.go
// What: AWS SDK adapters for artifact upload and stack submission.
// Why: Map the deployer ports onto S3 and CloudFormation clients.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
)

// s3API is the slice of the S3 client the store needs.
type s3API interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// stackAPI is the slice of the CloudFormation client the submitter needs.
type stackAPI interface {
	DescribeStacks(ctx context.Context, input *cloudformation.DescribeStacksInput, opts ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	CreateStack(ctx context.Context, input *cloudformation.CreateStackInput, opts ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, input *cloudformation.UpdateStackInput, opts ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
}

// S3Store uploads artifacts into the profile's bucket.
type S3Store struct {
	client s3API
	bucket string
}

func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader) error {
	if s.client == nil {
		return &DeploymentError{Op: "upload", Err: fmt.Errorf("s3 client is nil")}
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return &DeploymentError{Op: fmt.Sprintf("upload %s", key), Err: err}
	}
	return nil
}

// StackClient creates or updates the target stack.
type StackClient struct {
	client stackAPI
}

func (c *StackClient) Submit(ctx context.Context, stackName, templateURL string) error {
	if c.client == nil {
		return &DeploymentError{Op: "submit stack", Err: fmt.Errorf("cloudformation client is nil")}
	}

	exists, err := c.stackExists(ctx, stackName)
	if err != nil {
		return &DeploymentError{Op: "describe stack", Err: err}
	}

	capabilities := []cfntypes.Capability{cfntypes.CapabilityCapabilityIam}
	if exists {
		_, err = c.client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
			StackName:    aws.String(stackName),
			TemplateURL:  aws.String(templateURL),
			Capabilities: capabilities,
		})
		if err != nil {
			return &DeploymentError{Op: fmt.Sprintf("update stack %s", stackName), Err: err}
		}
		return nil
	}

	_, err = c.client.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(stackName),
		TemplateURL:  aws.String(templateURL),
		Capabilities: capabilities,
	})
	if err != nil {
		return &DeploymentError{Op: fmt.Sprintf("create stack %s", stackName), Err: err}
	}
	return nil
}

func (c *StackClient) stackExists(ctx context.Context, stackName string) (bool, error) {
	_, err := c.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err == nil {
		return true, nil
	}
	// DescribeStacks reports a missing stack as a ValidationError rather
	// than a typed not-found error.
	var apiErr interface{ ErrorMessage() string }
	if errors.As(err, &apiErr) && strings.Contains(apiErr.ErrorMessage(), "does not exist") {
		return false, nil
	}
	return false, err
}

// NewAWSClients builds the S3 store and stack client from the profile,
// resolving shared config for the configured profile and region. A
// TLALOC_ENDPOINT override with static credentials supports local
// S3-compatible targets.
func NewAWSClients(ctx context.Context, profile *config.Profile) (*S3Store, *StackClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(profile.Region),
		awsconfig.WithSharedConfigProfile(profile.AWSProfile),
	}
	endpoint := strings.TrimSpace(os.Getenv(meta.EnvPrefix + "_ENDPOINT"))
	if endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(
			endpointAccessKey(), endpointSecretKey(), "")
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, nil, &DeploymentError{Op: "load aws config", Err: err}
	}

	s3Client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	cfnClient := cloudformation.NewFromConfig(cfg, func(options *cloudformation.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3Store{client: s3Client, bucket: profile.Bucket}, &StackClient{client: cfnClient}, nil
}

func endpointAccessKey() string {
	if value := os.Getenv(meta.EnvPrefix + "_ACCESS_KEY"); value != "" {
		return value
	}
	return "dummy"
}

func endpointSecretKey() string {
	if value := os.Getenv(meta.EnvPrefix + "_SECRET_KEY"); value != "" {
		return value
	}
	return "dummy"
}
