package database

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDBOptions configures the DynamoDB ledger client.
//
//   - Region defaults to us-east-1.
//   - Endpoint is optional (e.g. http://dynamodb:8000 for DynamoDB Local).
//   - AccessKeyID/SecretAccessKey are only used when Endpoint is set; otherwise
//     the default AWS credential chain applies.
type DynamoDBOptions struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// ConnectDynamoDB creates a DynamoDB client for the ledger tables.
func ConnectDynamoDB(ctx context.Context, opts DynamoDBOptions) (*dynamodb.Client, error) {
	cfg, err := newDynamoDBConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

func newDynamoDBConfig(ctx context.Context, opts DynamoDBOptions) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if opts.Endpoint != "" {
		// DynamoDB Local does not validate credentials, but the SDK requires them.
		key, secret := opts.AccessKeyID, opts.SecretAccessKey
		if key == "" {
			key, secret = "local", "local"
		}
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, ""),
		))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}
