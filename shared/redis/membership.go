package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// Membership tracks which members belong to an owner, e.g. the accounts a
// client holds. Adding or removing the same member twice is harmless, so
// redelivered events do not skew the count.
type Membership interface {
	Add(ctx context.Context, owner, member int64) error
	Remove(ctx context.Context, owner, member int64) error
	Count(ctx context.Context, owner int64) (int64, error)
}

// SetMembership keeps one Redis set per owner under {prefix}:{owner}.
type SetMembership struct {
	client *goredis.Client
	prefix string
}

func NewSetMembership(client *goredis.Client, prefix string) *SetMembership {
	return &SetMembership{client: client, prefix: prefix}
}

func (m *SetMembership) key(owner int64) string {
	return m.prefix + ":" + strconv.FormatInt(owner, 10)
}

func (m *SetMembership) Add(ctx context.Context, owner, member int64) error {
	if err := m.client.SAdd(ctx, m.key(owner), member).Err(); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (m *SetMembership) Remove(ctx context.Context, owner, member int64) error {
	if err := m.client.SRem(ctx, m.key(owner), member).Err(); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func (m *SetMembership) Count(ctx context.Context, owner int64) (int64, error) {
	n, err := m.client.SCard(ctx, m.key(owner)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// LocalMembership is the in-process Membership used when no Redis is
// configured. It only sees events delivered to this process.
type LocalMembership struct {
	mu   sync.Mutex
	sets map[int64]map[int64]struct{}
}

func NewLocalMembership() *LocalMembership {
	return &LocalMembership{sets: make(map[int64]map[int64]struct{})}
}

func (m *LocalMembership) Add(_ context.Context, owner, member int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[owner]
	if !ok {
		set = make(map[int64]struct{})
		m.sets[owner] = set
	}
	set[member] = struct{}{}
	return nil
}

func (m *LocalMembership) Remove(_ context.Context, owner, member int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets[owner], member)
	if len(m.sets[owner]) == 0 {
		delete(m.sets, owner)
	}
	return nil
}

func (m *LocalMembership) Count(_ context.Context, owner int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sets[owner])), nil
}
