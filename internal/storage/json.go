package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

type Logger interface {
	Printf(format string, v ...any)
}

// LoadJSON decodes the document under key into dst.
// A missing key returns found=false. A document that is not valid JSON for dst
// is logged as WARN and also reported as found=false, leaving dst untouched.
func LoadJSON(ctx context.Context, st StateStorage, ownerUserID, key string, dst any, logger Logger) (bool, error) {
	raw, found, err := st.GetState(ctx, ownerUserID, key)
	if err != nil {
		return false, err
	}
	if !found || len(raw) == 0 {
		return false, nil
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("decode %s: destination must be a non-nil pointer", key)
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		if logger != nil {
			logger.Printf("WARN state: owner=%s key=%s corrupt JSON, using default: %v", ownerUserID, key, err)
		}
		return false, nil
	}
	rv.Elem().Set(fresh.Elem())
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, st StateStorage, ownerUserID, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return st.PutState(ctx, ownerUserID, key, raw)
}
