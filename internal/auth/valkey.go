package auth

import (
	"context"
	"fmt"

	"github.com/oyaguma3/tor-control-bot/internal/config"
	"github.com/oyaguma3/tor-control-bot/internal/store"
)

// valkeyStore はCallerStoreのValkey実装。
// レコードは呼び出し元IDごとのハッシュとして保存し、TTLで失効させる。
type valkeyStore struct {
	vc *store.ValkeyClient
}

// NewValkeyStore はValkeyバックエンドのCallerStoreを生成する。
func NewValkeyStore(vc *store.ValkeyClient) CallerStore {
	return &valkeyStore{vc: vc}
}

// Get はレコードをValkeyから取得する。
func (s *valkeyStore) Get(ctx context.Context, callerID string) (*CallerAuth, error) {
	key := store.KeyPrefixCallerAuth + callerID
	m, err := s.vc.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValkeyUnavailable, err)
	}
	if len(m) == 0 {
		return nil, ErrCallerNotFound
	}

	var rec CallerAuth
	if err := store.MapToStruct(m, &rec); err != nil {
		return nil, fmt.Errorf("caller auth deserialization error: %w", err)
	}
	return &rec, nil
}

// Put はレコードをValkeyへ保存する。
func (s *valkeyStore) Put(ctx context.Context, callerID string, rec *CallerAuth) error {
	key := store.KeyPrefixCallerAuth + callerID
	m := store.StructToMap(rec)

	pipe := s.vc.Client().Pipeline()
	pipe.HSet(ctx, key, m)
	pipe.Expire(ctx, key, config.CallerAuthTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValkeyUnavailable, err)
	}
	return nil
}

// Delete はレコードをValkeyから削除する。
func (s *valkeyStore) Delete(ctx context.Context, callerID string) error {
	key := store.KeyPrefixCallerAuth + callerID
	if err := s.vc.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValkeyUnavailable, err)
	}
	return nil
}
