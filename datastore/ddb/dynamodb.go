/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/pathstore/datastore"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/keygen"
	"github.com/suparena/pathstore/storagemodels"
)

// API is the subset of the DynamoDB client used by Store. *dynamodb.Client satisfies it.
type API interface {
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
}

var _ API = (*sdk.Client)(nil)

// Store implements datastore.TreeStore on a single DynamoDB table, one item per scalar leaf.
//
// A read is one paginated Query on the partition of the path's first segment (a Scan for the
// root). A write reads the keys of the subtree it replaces and submits deletes and puts in
// batches of 25.
type Store struct {
	client API
	cfg    Config
	keys   keygen.Generator
}

var _ datastore.TreeStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithKeyGenerator sets the generator used by GenerateKey.
func WithKeyGenerator(g keygen.Generator) Option {
	return func(s *Store) {
		s.keys = g
	}
}

// New constructs a Store on an existing client.
func New(client API, cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Store{client: client, cfg: cfg, keys: keygen.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open creates a DynamoDB client from cfg and constructs a Store on it.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return New(client, cfg, opts...)
}

// Read assembles the subtree stored at path.
func (s *Store) Read(ctx context.Context, path storagemodels.Path) (any, bool, error) {
	items, err := s.subtree(ctx, path)
	if err != nil {
		return nil, false, err
	}

	leaves := make([]storagemodels.Leaf, 0, len(items))
	for _, item := range items {
		leaf, err := s.decodeLeaf(item)
		if err != nil {
			return nil, false, errors.NewMalformedPayloadError(path.String(), err)
		}
		leaves = append(leaves, leaf)
	}

	v := storagemodels.Assemble(path, leaves)
	return v, v != nil, nil
}

// Query reads the node at path and narrows its children in memory.
func (s *Store) Query(ctx context.Context, path storagemodels.Path, q storagemodels.Query) ([]storagemodels.Child, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Limit() == 0 {
		return []storagemodels.Child{}, nil
	}
	node, _, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return storagemodels.Apply(node, q)
}

// Write stores value at path.
func (s *Store) Write(ctx context.Context, path storagemodels.Path, value any, mode datastore.WriteMode) error {
	prepared, err := datastore.PrepareWrite(value, mode)
	if err != nil {
		return err
	}

	targets := map[string]any{}
	base := path
	switch mode {
	case datastore.Replace:
		if path.IsRoot() {
			m, isMap := storagemodels.Treeify(prepared).(map[string]any)
			if !isMap && prepared != nil {
				return errors.NewValidationError("value", "the root can only hold a mapping")
			}
			// the root is replaced partition by partition
			existing, err := s.partitions(ctx)
			if err != nil {
				return err
			}
			for _, pk := range existing {
				targets[pk] = nil
			}
			for k, v := range m {
				targets[k] = v
			}
		} else {
			base = path.Parent()
			targets[path.Key()] = prepared
		}
	case datastore.Merge:
		targets = prepared.(map[string]any)
	}

	batch := newWriteBatch()
	for k, v := range targets {
		if err := s.stageReplace(ctx, batch, base.Child(k), v); err != nil {
			return err
		}
	}
	return s.flush(ctx, batch)
}

// GenerateKey returns a fresh key from the configured generator.
func (s *Store) GenerateKey(ctx context.Context, path storagemodels.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.keys.NewKey(), nil
}

// Delete removes every leaf at or below path.
func (s *Store) Delete(ctx context.Context, path storagemodels.Path) error {
	batch := newWriteBatch()
	if path.IsRoot() {
		items, err := s.subtree(ctx, path)
		if err != nil {
			return err
		}
		for _, item := range items {
			k, err := s.decodeKey(item)
			if err != nil {
				return errors.NewMalformedPayloadError("", err)
			}
			batch.delete(k)
		}
		return s.flush(ctx, batch)
	}
	if err := s.stageReplace(ctx, batch, path, nil); err != nil {
		return err
	}
	return s.flush(ctx, batch)
}

// stageReplace queues the removal of the subtree at path and of scalar ancestors, then the
// puts for value's leaves.
func (s *Store) stageReplace(ctx context.Context, batch *writeBatch, path storagemodels.Path, value any) error {
	items, err := s.subtree(ctx, path)
	if err != nil {
		return err
	}
	for _, item := range items {
		k, err := s.decodeKey(item)
		if err != nil {
			return errors.NewMalformedPayloadError(path.String(), err)
		}
		batch.delete(k)
	}
	if value == nil {
		return nil
	}

	for anc := path.Parent(); !anc.IsRoot(); anc = anc.Parent() {
		batch.delete(keyOf(anc))
	}
	for _, leaf := range storagemodels.Flatten(path, storagemodels.Treeify(value)) {
		item, err := s.encodeLeaf(leaf)
		if err != nil {
			return errors.NewMalformedPayloadError(leaf.Path.String(), err)
		}
		batch.put(keyOf(leaf.Path), item)
	}
	return nil
}

// subtree returns every item at or below path.
func (s *Store) subtree(ctx context.Context, path storagemodels.Path) ([]map[string]types.AttributeValue, error) {
	if path.IsRoot() {
		return s.scanAll(ctx)
	}

	k := keyOf(path)
	keyCond := "#pk = :pk"
	names := map[string]string{"#pk": s.cfg.PartitionKey}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: k.PK},
	}
	if k.SK != storagemodels.Separator {
		keyCond += " AND begins_with(#sk, :prefix)"
		names["#sk"] = s.cfg.SortKey
		values[":prefix"] = &types.AttributeValueMemberS{Value: k.SK}
	}

	input := &sdk.QueryInput{
		TableName:                 aws.String(s.cfg.Table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	var items []map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", path, err)
		}
		for _, item := range out.Items {
			ik, err := s.decodeKey(item)
			if err != nil {
				return nil, errors.NewMalformedPayloadError(path.String(), err)
			}
			// begins_with also matches siblings sharing a name prefix
			if inSubtree(ik.SK, k.SK) {
				items = append(items, item)
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (s *Store) scanAll(ctx context.Context) ([]map[string]types.AttributeValue, error) {
	input := &sdk.ScanInput{TableName: aws.String(s.cfg.Table)}
	var items []map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.cfg.Table, err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// partitions lists the first-level keys present in the table.
func (s *Store) partitions(ctx context.Context) ([]string, error) {
	items, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var pks []string
	for _, item := range items {
		k, err := s.decodeKey(item)
		if err != nil {
			return nil, errors.NewMalformedPayloadError("", err)
		}
		if !seen[k.PK] {
			seen[k.PK] = true
			pks = append(pks, k.PK)
		}
	}
	return pks, nil
}
