package simulator

import (
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
)

// tagStore holds the tags of every tagged resource, keyed by ARN
type tagStore struct {
	mu   sync.RWMutex
	tags map[string][]*ecs.Tag
}

func newTagStore() *tagStore {
	return &tagStore{tags: make(map[string][]*ecs.Tag)}
}

// tag adds tags to a resource, replacing the values of existing keys
func (s *tagStore) tag(arn string, tags []*ecs.Tag) {
	if len(tags) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.tags[arn]
	for _, t := range tags {
		key := aws.StringValue(t.Key)
		tag := &ecs.Tag{Key: aws.String(key), Value: aws.String(aws.StringValue(t.Value))}

		replaced := false
		for i, e := range existing {
			if aws.StringValue(e.Key) == key {
				existing[i] = tag
				replaced = true
				break
			}
		}

		if !replaced {
			existing = append(existing, tag)
		}
	}
	s.tags[arn] = existing
}

// list returns a copy of the tags of a resource
func (s *tagStore) list(arn string) []*ecs.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]*ecs.Tag, 0, len(s.tags[arn]))
	for _, t := range s.tags[arn] {
		tags = append(tags, &ecs.Tag{Key: aws.String(aws.StringValue(t.Key)), Value: aws.String(aws.StringValue(t.Value))})
	}
	return tags
}
