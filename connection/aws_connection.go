// Package connection holds the credential and client configuration of the object store sources
package connection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultAwsRegion = "us-east-1"

// AwsConnection is the `connection` block of an aws_s3_bucket source
type AwsConnection struct {
	Profile               *string `hcl:"profile,optional"`
	AccessKey             *string `hcl:"access_key,optional"`
	SecretKey             *string `hcl:"secret_key,optional"`
	SessionToken          *string `hcl:"session_token,optional"`
	Region                *string `hcl:"region,optional"`
	MaxErrorRetryAttempts *int    `hcl:"max_error_retry_attempts,optional"`
	// in milliseconds
	MinErrorRetryDelay *int    `hcl:"min_error_retry_delay,optional"`
	EndpointUrl        *string `hcl:"endpoint_url,optional"`
	S3ForcePathStyle   *bool   `hcl:"s3_force_path_style,optional"`
}

func (c *AwsConnection) Validate() error {
	if c.AccessKey != nil && c.SecretKey == nil {
		return errors.New("access_key set without secret_key")
	}
	if c.AccessKey == nil && c.SecretKey != nil {
		return errors.New("secret_key set without access_key")
	}
	if c.MinErrorRetryDelay != nil && *c.MinErrorRetryDelay < 1 {
		return errors.New("min_error_retry_delay must be greater than or equal to 1")
	}
	if c.MaxErrorRetryAttempts != nil && *c.MaxErrorRetryAttempts < 1 {
		return errors.New("max_error_retry_attempts must be greater than or equal to 1")
	}
	return nil
}

func (c *AwsConnection) Identifier() string {
	return "aws"
}

// GetClientConfiguration builds the AWS config for the connection
// the region is taken from (in order): the override, the connection, the environment/profile, us-east-1
func (c *AwsConnection) GetClientConfiguration(ctx context.Context, overrideRegion *string) (*aws.Config, error) {
	var configOptions []func(*config.LoadOptions) error

	if c.Profile != nil {
		configOptions = append(configOptions, config.WithSharedConfigProfile(aws.ToString(c.Profile)))
	}
	if c.AccessKey != nil && c.SecretKey != nil {
		provider := credentials.NewStaticCredentialsProvider(aws.ToString(c.AccessKey), aws.ToString(c.SecretKey), aws.ToString(c.SessionToken))
		configOptions = append(configOptions, config.WithCredentialsProvider(provider))
	}
	configOptions = append(configOptions, config.WithHTTPClient(sharedHTTPClient))

	switch {
	case overrideRegion != nil:
		configOptions = append(configOptions, config.WithRegion(*overrideRegion))
	case c.Region != nil:
		configOptions = append(configOptions, config.WithRegion(*c.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = defaultAwsRegion
	}

	maxRetries := readEnvVarToInt("AWS_MAX_ATTEMPTS", 9)
	if c.MaxErrorRetryAttempts != nil {
		maxRetries = *c.MaxErrorRetryAttempts
	}
	minRetryDelay := 25 * time.Millisecond
	if c.MinErrorRetryDelay != nil {
		minRetryDelay = time.Duration(*c.MinErrorRetryDelay) * time.Millisecond
	}

	retryer := retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = maxRetries
		o.MaxBackoff = maxBackoff
		o.RateLimiter = NoOpRateLimit{}
		o.Backoff = NewExponentialJitterBackoff(minRetryDelay, maxRetries)
	})
	cfg.Retryer = func() aws.Retryer {
		// UnknownError is the code returned for a 408
		return retry.AddWithErrorCodes(retryer, "UnknownError")
	}

	return &cfg, nil
}

// S3Options returns the s3 client options for the endpoint url and path style settings
func (c *AwsConnection) S3Options() func(*s3.Options) {
	endpointUrl := aws.ToString(c.EndpointUrl)
	if endpointUrl == "" {
		endpointUrl = os.Getenv("AWS_ENDPOINT_URL")
	}
	return func(o *s3.Options) {
		if endpointUrl != "" {
			o.BaseEndpoint = aws.String(endpointUrl)
		}
		if c.S3ForcePathStyle != nil {
			o.UsePathStyle = *c.S3ForcePathStyle
		}
	}
}

func readEnvVarToInt(name string, defaultVal int) int {
	if envValue := os.Getenv(name); envValue != "" {
		if i, err := strconv.Atoi(envValue); err == nil {
			return i
		}
	}
	return defaultVal
}
