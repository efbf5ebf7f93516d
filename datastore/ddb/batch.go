/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxBatchSize is the BatchWriteItem request limit.
const maxBatchSize = 25

// writeBatch collects the deletes and puts of one logical write. A put replaces a queued delete
// of the same key, since one request may not touch a key twice.
type writeBatch struct {
	order []itemKey
	ops   map[itemKey]map[string]types.AttributeValue
}

func newWriteBatch() *writeBatch {
	return &writeBatch{ops: make(map[itemKey]map[string]types.AttributeValue)}
}

func (b *writeBatch) delete(k itemKey) {
	if _, queued := b.ops[k]; queued {
		return
	}
	b.order = append(b.order, k)
	b.ops[k] = nil
}

func (b *writeBatch) put(k itemKey, item map[string]types.AttributeValue) {
	if _, queued := b.ops[k]; !queued {
		b.order = append(b.order, k)
	}
	b.ops[k] = item
}

func (s *Store) requests(b *writeBatch) []types.WriteRequest {
	reqs := make([]types.WriteRequest, 0, len(b.order))
	for _, k := range b.order {
		if item := b.ops[k]; item != nil {
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
			continue
		}
		reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: s.encodeKey(k)}})
	}
	return reqs
}

// flush submits the batch in chunks and resubmits unprocessed items with linear backoff.
func (s *Store) flush(ctx context.Context, b *writeBatch) error {
	reqs := s.requests(b)
	for start := 0; start < len(reqs); start += maxBatchSize {
		end := min(start+maxBatchSize, len(reqs))
		if err := s.writeChunk(ctx, reqs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeChunk(ctx context.Context, chunk []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.cfg.Table: chunk}
	for attempt := 0; ; attempt++ {
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("BatchWriteItem failed: %w", err)
		}
		if len(out.UnprocessedItems[s.cfg.Table]) == 0 {
			return nil
		}
		if attempt >= s.cfg.MaxRetries {
			return fmt.Errorf("BatchWriteItem left %d unprocessed items after %d retries",
				len(out.UnprocessedItems[s.cfg.Table]), s.cfg.MaxRetries)
		}
		pending = out.UnprocessedItems

		backoff := time.Duration(attempt+1) * s.cfg.RetryBackoff
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
