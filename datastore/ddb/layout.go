/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/pathstore/storagemodels"
)

// Items are laid out one per scalar leaf:
//
//	PK = first path segment
//	SK = "/" followed by the remaining segments ("/" alone for a leaf at the first segment)
//	V  = the leaf value
//
// so the subtree at a path is one partition, narrowed by a begins_with on SK.

// itemKey is the primary key of one leaf item.
type itemKey struct {
	PK string
	SK string
}

func keyOf(p storagemodels.Path) itemKey {
	segs := p.Segments()
	return itemKey{PK: segs[0], SK: storagemodels.Separator + strings.Join(segs[1:], storagemodels.Separator)}
}

func (k itemKey) path() storagemodels.Path {
	return storagemodels.ParsePath(k.PK).Join(storagemodels.ParsePath(k.SK))
}

// inSubtree reports whether the item sk lies at or below the sort-key prefix of a path.
func inSubtree(sk, prefix string) bool {
	if prefix == storagemodels.Separator {
		return true
	}
	return sk == prefix || strings.HasPrefix(sk, prefix+storagemodels.Separator)
}

// toAttribute converts a canonical scalar to an attribute value.
func toAttribute(v any) (types.AttributeValue, error) {
	switch v.(type) {
	case string, bool, int64, float64:
		return attributevalue.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported leaf type %T", v)
}

// fromAttribute converts a leaf attribute back to a canonical scalar.
func fromAttribute(av types.AttributeValue) (any, error) {
	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		return tv.Value, nil
	case *types.AttributeValueMemberN:
		return storagemodels.Normalize(json.Number(tv.Value))
	case *types.AttributeValueMemberBOOL:
		return tv.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported attribute type %T", av)
}

func (s *Store) encodeKey(k itemKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.cfg.PartitionKey: &types.AttributeValueMemberS{Value: k.PK},
		s.cfg.SortKey:      &types.AttributeValueMemberS{Value: k.SK},
	}
}

func (s *Store) decodeKey(item map[string]types.AttributeValue) (itemKey, error) {
	var k itemKey
	if err := attributevalue.Unmarshal(item[s.cfg.PartitionKey], &k.PK); err != nil {
		return k, fmt.Errorf("partition key: %w", err)
	}
	if err := attributevalue.Unmarshal(item[s.cfg.SortKey], &k.SK); err != nil {
		return k, fmt.Errorf("sort key: %w", err)
	}
	return k, nil
}

func (s *Store) encodeLeaf(leaf storagemodels.Leaf) (map[string]types.AttributeValue, error) {
	av, err := toAttribute(leaf.Value)
	if err != nil {
		return nil, err
	}
	item := s.encodeKey(keyOf(leaf.Path))
	item[s.cfg.ValueAttribute] = av
	return item, nil
}

func (s *Store) decodeLeaf(item map[string]types.AttributeValue) (storagemodels.Leaf, error) {
	k, err := s.decodeKey(item)
	if err != nil {
		return storagemodels.Leaf{}, err
	}
	v, err := fromAttribute(item[s.cfg.ValueAttribute])
	if err != nil {
		return storagemodels.Leaf{}, fmt.Errorf("%s%s: %w", k.PK, k.SK, err)
	}
	return storagemodels.Leaf{Path: k.path(), Value: v}, nil
}
