package sessionvalkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/barangay-connect/member-portal/internal/serviceerr"
)

type store struct {
	valkey valkey.Client
	prefix string
}

func newStore(valkeyClient valkey.Client, prefix string) *store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

func (s *store) Get(ctx context.Context, objectType ObjectType, objectID string, decodeInto any) error {
	key := s.key(objectType, objectID)
	return s.get(ctx, key, decodeInto)
}

func (s *store) Set(ctx context.Context, objectType ObjectType, id string, val any, ttl time.Duration) error {
	key := s.key(objectType, id)
	bytes, err := s.encode(val)
	if err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}

	var cmd valkey.Completed
	if ttl > 0 {
		cmd = s.valkey.B().Set().Key(key).Value(valkey.BinaryString(bytes)).ExSeconds(ttlSeconds(ttl)).Build()
	} else {
		cmd = s.valkey.B().Set().Key(key).Value(valkey.BinaryString(bytes)).Build()
	}
	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

// SetIfAbsent writes the key only when it does not exist yet and reports
// serviceerr.ErrConflict otherwise.
func (s *store) SetIfAbsent(ctx context.Context, objectType ObjectType, id string, ttl time.Duration) error {
	key := s.key(objectType, id)
	err := s.valkey.Do(ctx, s.valkey.B().Set().Key(key).Value("1").Nx().ExSeconds(ttlSeconds(ttl)).Build()).Error()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			// SET NX answers nil when the key already exists.
			return errors.Join(valkeyErr, serviceerr.ErrConflict)
		}

		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

func (s *store) Destroy(ctx context.Context, objectType ObjectType, id string) error {
	key := s.key(objectType, id)
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", err)
	}

	return nil
}

func (s *store) get(ctx context.Context, key string, decodeInto any) error {
	bytes, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return errors.Join(valkeyErr, serviceerr.ErrNotFound)
		}

		return fmt.Errorf("executing get command: %w", err)
	}

	if err := s.decode(bytes, decodeInto); err != nil {
		return fmt.Errorf("decoding object: %w", err)
	}

	return nil
}

func (s *store) key(objectType ObjectType, objectID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, objectType, objectID)
}

func (s *store) encode(v any) ([]byte, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling json: %w", err)
	}

	return bytes, nil
}

func (s *store) decode(data []byte, into any) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	return seconds
}

func getStoreObjects[T any](ctx context.Context, s *store, objectType ObjectType, objectID string, decodeInto *[]T) error {
	key := s.key(objectType, objectID)
	var cursor uint64
	for {
		scan, err := s.valkey.Do(ctx, s.valkey.B().Scan().Cursor(cursor).Match(key).Count(100).Build()).AsScanEntry()
		if err != nil {
			return fmt.Errorf("executing scan command: %w", err)
		}

		cursor = scan.Cursor
		*decodeInto = slices.Grow(*decodeInto, len(scan.Elements))
		for _, key := range scan.Elements {
			var decoded T
			if err := s.get(ctx, key, &decoded); err != nil {
				return fmt.Errorf("getting an element: %w", err)
			}

			*decodeInto = append(*decodeInto, decoded)
		}

		if cursor == 0 {
			return nil
		}
	}
}
