/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/suparena/pathstore/errors"
)

// Config holds the connection and layout settings for a DynamoDB table.
type Config struct {
	Table     string
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string

	// PartitionKey and SortKey name the table's key attributes.
	PartitionKey string
	SortKey      string
	// ValueAttribute holds the leaf value.
	ValueAttribute string

	// MaxRetries bounds the resubmission of unprocessed batch items.
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultConfig returns a Config for table using the PK/SK/V attribute layout.
func DefaultConfig(table string) Config {
	return Config{
		Table:          table,
		PartitionKey:   "PK",
		SortKey:        "SK",
		ValueAttribute: "V",
		MaxRetries:     3,
		RetryBackoff:   100 * time.Millisecond,
	}
}

func (c *Config) validate() error {
	if c.Table == "" {
		return errors.NewValidationError("Table", "table name is required")
	}
	if c.PartitionKey == "" {
		c.PartitionKey = "PK"
	}
	if c.SortKey == "" {
		c.SortKey = "SK"
	}
	if c.ValueAttribute == "" {
		c.ValueAttribute = "V"
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 100 * time.Millisecond
	}
	return nil
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
